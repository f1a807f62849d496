package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InterfaceSystem is the oracle integration configuration for one owning
// system. When DeductPercentage is set, Percentage and PercentageAccountCode
// must both be configured.
type InterfaceSystem struct {
	SystemID              string
	SystemName            string
	DeductPercentage      bool
	Percentage            decimal.Decimal
	PercentageAccountCode string
	Recipients            []string
}

// OpenPeriodName formats the period a transaction date falls in, e.g. MAY-20.
// Postings are only permitted while a period with this name is open.
func OpenPeriodName(t time.Time) string {
	return strings.ToUpper(t.Format("January")) + "-" + t.Format("06")
}

// InterfaceStatusNew is the status every freshly posted interface row carries.
const InterfaceStatusNew = "NEW"

// InterfaceRecord is one posted ledger interface row: a net amount attributed
// to an activity code for a receipt date.
type InterfaceRecord struct {
	RecordID     string
	ReceiptDate  time.Time
	ActivityName string
	Amount       decimal.Decimal
	CustomerName string
	Description  string
	Comments     string
	Status       string
	StatusDate   time.Time
}
