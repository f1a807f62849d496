package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterfaceSystem represents the oracle integration configuration of one
// owning system. Recipients live in a separate table.
type InterfaceSystem struct {
	SystemID              string          `db:"system_id"`
	SystemName            string          `db:"system_name"`
	DeductPercentage      bool            `db:"deduct_percentage"`
	Percentage            decimal.Decimal `db:"percentage"`
	PercentageAccountCode string          `db:"percentage_account_code"` // Nullable
}

// InterfaceRecord represents one posted oracle interface row.
type InterfaceRecord struct {
	RecordID     string          `db:"record_id"`
	ReceiptDate  time.Time       `db:"receipt_date"`
	ActivityName string          `db:"activity_name"`
	Amount       decimal.Decimal `db:"amount"`
	CustomerName string          `db:"customer_name"`
	Description  string          `db:"description"`
	Comments     string          `db:"comments"`
	Status       string          `db:"status"`
	StatusDate   time.Time       `db:"status_date"`
}
