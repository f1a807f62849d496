package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ParksWS/payments_recon_app/internal/utils/accounting"
)

func TestExclTaxAmount(t *testing.T) {
	got := accounting.ExclTaxAmount(decimal.NewFromInt(110), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(99)))
}

func TestExclTaxAmountZeroRate(t *testing.T) {
	got := accounting.ExclTaxAmount(decimal.NewFromInt(110), decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(110)))
}

func TestExclTaxAmountZeroAmount(t *testing.T) {
	got := accounting.ExclTaxAmount(decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}
