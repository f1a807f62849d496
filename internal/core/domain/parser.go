package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParserRun is one reconciliation run for a processing date. Re-running the
// same date reuses the run row.
type ParserRun struct {
	RunID      string
	DateParsed time.Time
}

// LineSnapshot holds the cumulative amounts reported for one line as of one
// run. Snapshot history is append only; later runs diff against the summed
// history to find new movement.
type LineSnapshot struct {
	Code       string
	Payment    decimal.Decimal
	Refund     decimal.Decimal
	Deductions decimal.Decimal
}

// HasMovement reports whether any amount in the snapshot is non-zero.
func (s LineSnapshot) HasMovement() bool {
	return !s.Payment.IsZero() || !s.Refund.IsZero() || !s.Deductions.IsZero()
}

// ParserInvoice is one invoice's snapshot within a run, keyed by line id.
// Stale line ids from lines later removed may remain in history; they are
// tolerated when summing.
type ParserInvoice struct {
	SnapshotID string
	Reference  string
	RunID      string
	Lines      map[int64]LineSnapshot
}

// HasMovement reports whether any line in the snapshot carries movement.
func (p ParserInvoice) HasMovement() bool {
	for _, line := range p.Lines {
		if line.HasMovement() {
			return true
		}
	}
	return false
}

// CodeTotals accumulates net movement per account code for one run.
type CodeTotals map[string]decimal.Decimal

// Add accumulates movement under an account code, creating it if absent.
func (c CodeTotals) Add(code string, amount decimal.Decimal) {
	c[code] = c[code].Add(amount)
}

// Ensure makes sure the code exists in the map, starting at zero.
func (c CodeTotals) Ensure(code string) {
	if _, ok := c[code]; !ok {
		c[code] = decimal.Zero
	}
}
