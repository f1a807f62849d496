package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

// snapshotLine is the stored shape of one line's movement inside a snapshot
// details document.
type snapshotLine struct {
	Code       string          `json:"code"`
	Payment    decimal.Decimal `json:"payment"`
	Refund     decimal.Decimal `json:"refund"`
	Deductions decimal.Decimal `json:"deductions"`
}

// SnapshotDetailsToJSON serializes per-line movement for storage. Line ids
// become string object keys.
func SnapshotDetailsToJSON(lines map[int64]domain.LineSnapshot) ([]byte, error) {
	doc := make(map[int64]snapshotLine, len(lines))
	for lineID, ls := range lines {
		doc[lineID] = snapshotLine{
			Code:       ls.Code,
			Payment:    ls.Payment,
			Refund:     ls.Refund,
			Deductions: ls.Deductions,
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot details: %w", err)
	}
	return data, nil
}

// SnapshotDetailsFromJSON parses a stored snapshot details document,
// normalizing the string object keys back to int64 line ids.
func SnapshotDetailsFromJSON(data []byte) (map[int64]domain.LineSnapshot, error) {
	if len(data) == 0 {
		return map[int64]domain.LineSnapshot{}, nil
	}
	var doc map[int64]snapshotLine
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot details: %w", err)
	}
	lines := make(map[int64]domain.LineSnapshot, len(doc))
	for lineID, sl := range doc {
		lines[lineID] = domain.LineSnapshot{
			Code:       sl.Code,
			Payment:    sl.Payment,
			Refund:     sl.Refund,
			Deductions: sl.Deductions,
		}
	}
	return lines, nil
}

// AllocationSetToJSON serializes a line allocation ledger for storage.
func AllocationSetToJSON(set domain.AllocationSet) ([]byte, error) {
	if set == nil {
		set = domain.NewAllocationSet()
	}
	data, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize allocation ledger: %w", err)
	}
	return data, nil
}

// AllocationSetFromJSON parses a stored allocation ledger. Empty input yields
// an empty ledger with all source buckets present.
func AllocationSetFromJSON(data []byte) (domain.AllocationSet, error) {
	set := domain.NewAllocationSet()
	if len(data) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse allocation ledger: %w", err)
	}
	for _, source := range []domain.TxnSource{domain.SourceCard, domain.SourceBpay, domain.SourceCash} {
		if set[source] == nil {
			set[source] = map[string]decimal.Decimal{}
		}
	}
	return set, nil
}
