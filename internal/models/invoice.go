package models

import (
	"github.com/shopspring/decimal"
)

// Invoice represents a payment reference row as stored.
type Invoice struct {
	Reference       string          `db:"reference"` // Primary key, card CRN1 / bpay CRN
	SystemID        string          `db:"system_id"`
	OrderNumber     string          `db:"order_number"` // Nullable, empty when no order attached
	PaymentAmount   decimal.Decimal `db:"payment_amount"`
	RefundAmount    decimal.Decimal `db:"refund_amount"`
	DeductionAmount decimal.Decimal `db:"deduction_amount"`
}

// OrderLine represents one order line item. The three details columns hold the
// allocation ledgers as JSON, keyed source then transaction id.
type OrderLine struct {
	LineID           int64           `db:"line_id"`
	OrderNumber      string          `db:"order_number"`
	Description      string          `db:"description"`
	PriceInclTax     decimal.Decimal `db:"price_incl_tax"`
	OracleCode       string          `db:"oracle_code"`
	PaymentDetails   []byte          `db:"payment_details"`
	RefundDetails    []byte          `db:"refund_details"`
	DeductionDetails []byte          `db:"deduction_details"`
}
