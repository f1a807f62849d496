package domain

import "github.com/shopspring/decimal"

// Invoice groups order lines under a single payment reference. The three
// amount fields are gateway-reported ground truth and cap how much may be
// allocated per category across the whole invoice.
type Invoice struct {
	Reference       string // unique payment reference (card CRN1 / bpay CRN)
	SystemID        string // owning interface system
	OrderNumber     string // empty when no order is attached
	PaymentAmount   decimal.Decimal
	RefundAmount    decimal.Decimal
	DeductionAmount decimal.Decimal
}

// HasOrder reports whether the invoice is attached to an order.
func (i Invoice) HasOrder() bool {
	return i.OrderNumber != ""
}

// Line is one order line item. PriceInclTax caps the total allocation per
// category for the line; the three allocation sets are the durable ledger of
// money already assigned to it. Payment, refund and deduction caps are
// enforced independently against the same price.
type Line struct {
	LineID           int64
	OrderNumber      string
	Description      string
	PriceInclTax     decimal.Decimal
	OracleCode       string
	PaymentDetails   AllocationSet
	RefundDetails    AllocationSet
	DeductionDetails AllocationSet
}
