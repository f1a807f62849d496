package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

func TestAllocationSetAddAndAmount(t *testing.T) {
	set := domain.NewAllocationSet()
	assert.True(t, set.Amount(domain.SourceCard, "1").IsZero())

	set.Add(domain.SourceCard, "1", decimal.NewFromInt(30))
	set.Add(domain.SourceCard, "1", decimal.NewFromInt(20))
	set.Add(domain.SourceBpay, "2", decimal.NewFromInt(15))

	assert.True(t, set.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	assert.True(t, set.SourceTotal(domain.SourceCard).Equal(decimal.NewFromInt(50)))
	assert.True(t, set.Total().Equal(decimal.NewFromInt(65)))
}

func TestAllocationSetAddCreatesMissingBucket(t *testing.T) {
	set := domain.AllocationSet{}
	set.Add(domain.SourceCash, "9", decimal.NewFromInt(5))
	assert.True(t, set.Amount(domain.SourceCash, "9").Equal(decimal.NewFromInt(5)))
}

func TestOpenPeriodName(t *testing.T) {
	assert.Equal(t, "MAY-20", domain.OpenPeriodName(time.Date(2020, 5, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "DECEMBER-19", domain.OpenPeriodName(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestCodeTotalsAccumulates(t *testing.T) {
	totals := domain.CodeTotals{}
	totals.Ensure("ABC")
	totals.Add("ABC", decimal.NewFromInt(50))
	totals.Add("ABC", decimal.NewFromInt(-20))

	assert.True(t, totals["ABC"].Equal(decimal.NewFromInt(30)))
}

func TestParserInvoiceHasMovement(t *testing.T) {
	empty := domain.ParserInvoice{Lines: map[int64]domain.LineSnapshot{
		1: {Code: "ABC"},
	}}
	assert.False(t, empty.HasMovement())

	refunded := domain.ParserInvoice{Lines: map[int64]domain.LineSnapshot{
		1: {Code: "ABC"},
		2: {Code: "XYZ", Refund: decimal.NewFromInt(10)},
	}}
	assert.True(t, refunded.HasMovement())
}

func TestBpayClassification(t *testing.T) {
	payment := domain.BpayTransaction{InstructionCode: "05", TypeCode: "399", ServiceCode: "0"}
	assert.True(t, payment.IsPayment())
	assert.False(t, payment.IsRefund())
	assert.True(t, payment.Approved())

	refund := domain.BpayTransaction{InstructionCode: "25", TypeCode: "699", ServiceCode: "1"}
	assert.True(t, refund.IsRefund())
	assert.False(t, refund.IsPayment())
	assert.False(t, refund.Approved())
}

func TestCashCountsAsPayment(t *testing.T) {
	assert.True(t, domain.CashTransaction{Type: domain.CashPayment}.CountsAsPayment())
	assert.True(t, domain.CashTransaction{Type: domain.CashMoveIn}.CountsAsPayment())
	assert.False(t, domain.CashTransaction{Type: domain.CashMoveOut}.CountsAsPayment())
	assert.False(t, domain.CashTransaction{Type: domain.CashRefund}.CountsAsPayment())
}
