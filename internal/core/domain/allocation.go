package domain

import "github.com/shopspring/decimal"

// TxnSource identifies the gateway a transaction settled through.
type TxnSource string

const (
	SourceCard TxnSource = "card"
	SourceBpay TxnSource = "bpay"
	SourceCash TxnSource = "cash"
)

// AllocationCategory is the competing demand an amount is allocated against.
type AllocationCategory string

const (
	CategoryPayment   AllocationCategory = "payment"
	CategoryRefund    AllocationCategory = "refund"
	CategoryDeduction AllocationCategory = "deduction"
)

// AllocationSet is the durable allocation ledger for one line and one
// category: per transaction source, how much of each gateway transaction has
// been assigned to the line. Transaction ids are normalized to strings at the
// repository boundary.
type AllocationSet map[TxnSource]map[string]decimal.Decimal

// NewAllocationSet returns an empty set with all source buckets present.
func NewAllocationSet() AllocationSet {
	return AllocationSet{
		SourceCard: {},
		SourceBpay: {},
		SourceCash: {},
	}
}

// Amount returns the amount already allocated from the given transaction.
func (s AllocationSet) Amount(source TxnSource, txnID string) decimal.Decimal {
	if bucket, ok := s[source]; ok {
		if amt, ok := bucket[txnID]; ok {
			return amt
		}
	}
	return decimal.Zero
}

// Add accumulates an allocation increment for the given transaction, creating
// the transaction key if absent.
func (s AllocationSet) Add(source TxnSource, txnID string, amount decimal.Decimal) {
	bucket, ok := s[source]
	if !ok {
		bucket = map[string]decimal.Decimal{}
		s[source] = bucket
	}
	bucket[txnID] = bucket[txnID].Add(amount)
}

// SourceTotal sums everything allocated from one transaction source.
func (s AllocationSet) SourceTotal(source TxnSource) decimal.Decimal {
	total := decimal.Zero
	for _, amt := range s[source] {
		total = total.Add(amt)
	}
	return total
}

// Total sums everything allocated across all sources.
func (s AllocationSet) Total() decimal.Decimal {
	total := decimal.Zero
	for source := range s {
		total = total.Add(s.SourceTotal(source))
	}
	return total
}
