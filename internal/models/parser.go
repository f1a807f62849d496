package models

import "time"

// ParserRun represents one reconciliation run row, unique per processing date.
type ParserRun struct {
	RunID      string    `db:"run_id"`
	DateParsed time.Time `db:"date_parsed"`
}

// ParserInvoice represents one invoice snapshot within a run. Details holds
// the per-line movement as JSON keyed by line id.
type ParserInvoice struct {
	SnapshotID string `db:"snapshot_id"`
	Reference  string `db:"reference"`
	RunID      string `db:"run_id"`
	Details    []byte `db:"details"`
}
