package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardTransaction represents a settled card gateway record. The allocated
// columns are not stored; they are computed from the line ledgers at read
// time.
type CardTransaction struct {
	TxnID          string          `db:"txn_id"`
	CRN            string          `db:"crn"`
	Amount         decimal.Decimal `db:"amount"`
	Action         string          `db:"action"`
	ResponseCode   string          `db:"response_code"`
	SettlementDate time.Time       `db:"settlement_date"`
}

// BpayTransaction represents a bank bill payment record.
type BpayTransaction struct {
	TxnID           string          `db:"txn_id"`
	CRN             string          `db:"crn"`
	Amount          decimal.Decimal `db:"amount"`
	InstructionCode string          `db:"instruction_code"`
	TypeCode        string          `db:"type_code"`
	ServiceCode     string          `db:"service_code"`
	ProcessedDate   time.Time       `db:"processed_date"`
}

// CashTransaction represents a recorded cash movement against an invoice.
type CashTransaction struct {
	TxnID            string          `db:"txn_id"`
	InvoiceReference string          `db:"invoice_reference"`
	Amount           decimal.Decimal `db:"amount"`
	Type             string          `db:"txn_type"`
	Created          time.Time       `db:"created"`
}
