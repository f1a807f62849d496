package mapping_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/ParksWS/payments_recon_app/internal/utils/mapping"
)

func TestSnapshotDetailsRoundTrip(t *testing.T) {
	lines := map[int64]domain.LineSnapshot{
		1: {Code: "ABC", Payment: decimal.NewFromInt(50)},
		7: {Code: "XYZ", Refund: decimal.NewFromInt(10), Deductions: decimal.NewFromInt(5)},
	}

	data, err := mapping.SnapshotDetailsToJSON(lines)
	require.NoError(t, err)

	parsed, err := mapping.SnapshotDetailsFromJSON(data)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "ABC", parsed[1].Code)
	assert.True(t, parsed[1].Payment.Equal(decimal.NewFromInt(50)))
	assert.True(t, parsed[7].Refund.Equal(decimal.NewFromInt(10)))
	assert.True(t, parsed[7].Deductions.Equal(decimal.NewFromInt(5)))
}

func TestSnapshotDetailsFromStoredDocument(t *testing.T) {
	// Object keys in the stored JSONB are strings; amounts may arrive as JSON
	// numbers or strings.
	doc := []byte(`{"3": {"code": "ABC", "payment": "25.50", "refund": 0, "deductions": 0}}`)

	parsed, err := mapping.SnapshotDetailsFromJSON(doc)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.True(t, parsed[3].Payment.Equal(decimal.RequireFromString("25.50")))
}

func TestSnapshotDetailsFromEmptyInput(t *testing.T) {
	parsed, err := mapping.SnapshotDetailsFromJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestAllocationSetRoundTrip(t *testing.T) {
	set := domain.NewAllocationSet()
	set.Add(domain.SourceCard, "1", decimal.NewFromInt(50))
	set.Add(domain.SourceCash, "9", decimal.RequireFromString("2.75"))

	data, err := mapping.AllocationSetToJSON(set)
	require.NoError(t, err)

	parsed, err := mapping.AllocationSetFromJSON(data)
	require.NoError(t, err)
	assert.True(t, parsed.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	assert.True(t, parsed.Amount(domain.SourceCash, "9").Equal(decimal.RequireFromString("2.75")))
}

func TestAllocationSetFromEmptyInputHasAllBuckets(t *testing.T) {
	parsed, err := mapping.AllocationSetFromJSON(nil)
	require.NoError(t, err)
	assert.NotNil(t, parsed[domain.SourceCard])
	assert.NotNil(t, parsed[domain.SourceBpay])
	assert.NotNil(t, parsed[domain.SourceCash])
	assert.True(t, parsed.Total().IsZero())
}

func TestAllocationSetToJSONNilSet(t *testing.T) {
	data, err := mapping.AllocationSetToJSON(nil)
	require.NoError(t, err)

	parsed, err := mapping.AllocationSetFromJSON(data)
	require.NoError(t, err)
	assert.True(t, parsed.Total().IsZero())
}
