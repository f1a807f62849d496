package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/core/services"
)

type AllocationServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockGatewayRepo *MockGatewayReader
	service         portssvc.AllocationSvcFacade
	ctx             context.Context
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockGatewayRepo = new(MockGatewayReader)
	suite.service = services.NewAllocationService(suite.mockInvoiceRepo, suite.mockGatewayRepo)
	suite.ctx = context.Background()
}

func newTestLine(lineID int64, price int64, code string) domain.Line {
	return domain.Line{
		LineID:           lineID,
		OrderNumber:      "100",
		PriceInclTax:     decimal.NewFromInt(price),
		OracleCode:       code,
		PaymentDetails:   domain.NewAllocationSet(),
		RefundDetails:    domain.NewAllocationSet(),
		DeductionDetails: domain.NewAllocationSet(),
	}
}

func (suite *AllocationServiceTestSuite) expectRun(invoice *domain.Invoice, lines []domain.Line, cards []domain.CardTransaction, bpays []domain.BpayTransaction, cashes []domain.CashTransaction) {
	suite.mockInvoiceRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockInvoiceRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
	suite.mockInvoiceRepo.On("FindInvoiceByReference", mock.Anything, mock.Anything, invoice.Reference).Return(invoice, nil)
	if invoice.HasOrder() {
		suite.mockInvoiceRepo.On("FindOrderLines", mock.Anything, mock.Anything, invoice.OrderNumber).Return(lines, nil)
		suite.mockGatewayRepo.On("FindCardTxnsByInvoice", mock.Anything, mock.Anything, invoice.Reference).Return(cards, nil)
		suite.mockGatewayRepo.On("FindBpayTxnsByInvoice", mock.Anything, mock.Anything, invoice.Reference).Return(bpays, nil)
		suite.mockGatewayRepo.On("FindCashTxnsByInvoice", mock.Anything, mock.Anything, invoice.Reference).Return(cashes, nil)
		suite.mockInvoiceRepo.On("SaveLineAllocations", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Line")).Return(nil)
	}
	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
}

func (suite *AllocationServiceTestSuite) TestAllocatesCardPaymentToLine() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		SystemID:      "001",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(50),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC")}
	cards := []domain.CardTransaction{{
		TxnID:          "1",
		CRN:            "INV-1",
		Amount:         decimal.NewFromInt(50),
		Action:         domain.CardActionPayment,
		ResponseCode:   "0",
		SettlementDate: time.Date(2020, 5, 12, 0, 0, 0, 0, time.UTC),
	}}
	suite.expectRun(invoice, lines, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.Len(updated, 1)
	suite.True(updated[0].PaymentDetails.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	suite.mockInvoiceRepo.AssertCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestRepeatedRunDoesNotReallocate() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(50),
	}
	line := newTestLine(1, 50, "ABC")
	line.PaymentDetails.Add(domain.SourceCard, "1", decimal.NewFromInt(50))
	cards := []domain.CardTransaction{{
		TxnID:            "1",
		CRN:              "INV-1",
		Amount:           decimal.NewFromInt(50),
		Action:           domain.CardActionPayment,
		ResponseCode:     "0",
		PaymentAllocated: decimal.NewFromInt(50),
	}}
	suite.expectRun(invoice, []domain.Line{line}, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.True(updated[0].PaymentDetails.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	suite.True(updated[0].PaymentDetails.Total().Equal(decimal.NewFromInt(50)))
}

func (suite *AllocationServiceTestSuite) TestSplitsTransactionAcrossLines() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(80),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC"), newTestLine(2, 50, "DEF")}
	cards := []domain.CardTransaction{{
		TxnID:        "1",
		CRN:          "INV-1",
		Amount:       decimal.NewFromInt(80),
		Action:       domain.CardActionPayment,
		ResponseCode: "0",
	}}
	suite.expectRun(invoice, lines, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.True(updated[0].PaymentDetails.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	suite.True(updated[1].PaymentDetails.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(30)))
}

func (suite *AllocationServiceTestSuite) TestInvoiceCapStopsFurtherAllocation() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(50),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC"), newTestLine(2, 50, "DEF")}
	cards := []domain.CardTransaction{
		{TxnID: "1", CRN: "INV-1", Amount: decimal.NewFromInt(50), Action: domain.CardActionPayment, ResponseCode: "0"},
		{TxnID: "2", CRN: "INV-1", Amount: decimal.NewFromInt(50), Action: domain.CardActionPayment, ResponseCode: "0"},
	}
	suite.expectRun(invoice, lines, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	// The first transaction fills the first line and exhausts the invoice
	// level payment cap; nothing lands on the second line.
	suite.True(updated[0].PaymentDetails.Amount(domain.SourceCard, "1").Equal(decimal.NewFromInt(50)))
	suite.True(updated[1].PaymentDetails.Total().IsZero())
}

func (suite *AllocationServiceTestSuite) TestDeclinedCardIsIgnored() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(50),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC")}
	cards := []domain.CardTransaction{{
		TxnID:        "1",
		CRN:          "INV-1",
		Amount:       decimal.NewFromInt(50),
		Action:       domain.CardActionPayment,
		ResponseCode: "05",
	}}
	suite.expectRun(invoice, lines, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.True(updated[0].PaymentDetails.Total().IsZero())
}

func (suite *AllocationServiceTestSuite) TestBpayRefundAllocates() {
	invoice := &domain.Invoice{
		Reference:    "INV-1",
		OrderNumber:  "100",
		RefundAmount: decimal.NewFromInt(10),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC")}
	bpays := []domain.BpayTransaction{{
		TxnID:           "7",
		CRN:             "INV-1",
		Amount:          decimal.NewFromInt(10),
		InstructionCode: "25",
		TypeCode:        "699",
		ServiceCode:     "0",
	}}
	suite.expectRun(invoice, lines, []domain.CardTransaction{}, bpays, []domain.CashTransaction{})

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.True(updated[0].RefundDetails.Amount(domain.SourceBpay, "7").Equal(decimal.NewFromInt(10)))
	suite.True(updated[0].PaymentDetails.Total().IsZero())
}

func (suite *AllocationServiceTestSuite) TestCashMoveOutAllocatesDeduction() {
	invoice := &domain.Invoice{
		Reference:       "INV-1",
		OrderNumber:     "100",
		DeductionAmount: decimal.NewFromInt(20),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC")}
	cashes := []domain.CashTransaction{{
		TxnID:            "9",
		InvoiceReference: "INV-1",
		Amount:           decimal.NewFromInt(20),
		Type:             domain.CashMoveOut,
	}}
	suite.expectRun(invoice, lines, []domain.CardTransaction{}, []domain.BpayTransaction{}, cashes)

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.True(updated[0].DeductionDetails.Amount(domain.SourceCash, "9").Equal(decimal.NewFromInt(20)))
}

func (suite *AllocationServiceTestSuite) TestInvoiceNotFound() {
	suite.mockInvoiceRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockInvoiceRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
	suite.mockInvoiceRepo.On("FindInvoiceByReference", mock.Anything, mock.Anything, "MISSING").
		Return(nil, apperrors.ErrNotFound)

	updated, err := suite.service.UpdatePayments(suite.ctx, "MISSING")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(updated)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestInvoiceWithoutOrderCommitsWithoutWork() {
	invoice := &domain.Invoice{Reference: "INV-1"}
	suite.expectRun(invoice, nil, nil, nil, nil)

	updated, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.NoError(err)
	suite.Nil(updated)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindOrderLines", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestOverallocatedCounterFails() {
	invoice := &domain.Invoice{
		Reference:     "INV-1",
		OrderNumber:   "100",
		PaymentAmount: decimal.NewFromInt(50),
	}
	lines := []domain.Line{newTestLine(1, 50, "ABC")}
	cards := []domain.CardTransaction{{
		TxnID:            "1",
		CRN:              "INV-1",
		Amount:           decimal.NewFromInt(50),
		Action:           domain.CardActionPayment,
		ResponseCode:     "0",
		PaymentAllocated: decimal.NewFromInt(60),
	}}
	suite.expectRun(invoice, lines, cards, []domain.BpayTransaction{}, []domain.CashTransaction{})

	_, err := suite.service.UpdatePayments(suite.ctx, "INV-1")

	suite.ErrorIs(err, apperrors.ErrAllocationOverflow)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
