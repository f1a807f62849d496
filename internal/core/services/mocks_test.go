package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
)

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryWithTx = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByReference(ctx context.Context, tx pgx.Tx, reference string) (*domain.Invoice, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOrderLines(ctx context.Context, tx pgx.Tx, orderNumber string) ([]domain.Line, error) {
	args := m.Called(ctx, tx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Line), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceWithLines(ctx context.Context, reference string) (*domain.Invoice, []domain.Line, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	lines, _ := args.Get(1).([]domain.Line)
	return args.Get(0).(*domain.Invoice), lines, args.Error(2)
}

func (m *MockInvoiceRepository) SaveLineAllocations(ctx context.Context, tx pgx.Tx, line domain.Line) error {
	args := m.Called(ctx, tx, line)
	return args.Error(0)
}

// --- Mock GatewayTransactionReader ---

type MockGatewayReader struct {
	mock.Mock
}

var _ portsrepo.GatewayTransactionReader = (*MockGatewayReader)(nil)

func (m *MockGatewayReader) FindCardTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CardTransaction, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTransaction), args.Error(1)
}

func (m *MockGatewayReader) FindBpayTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.BpayTransaction, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BpayTransaction), args.Error(1)
}

func (m *MockGatewayReader) FindCashTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

func (m *MockGatewayReader) FindSettledCardTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CardTransaction, error) {
	args := m.Called(ctx, tx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTransaction), args.Error(1)
}

func (m *MockGatewayReader) FindSettledBpayTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.BpayTransaction, error) {
	args := m.Called(ctx, tx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BpayTransaction), args.Error(1)
}

func (m *MockGatewayReader) FindCashTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, tx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

// --- Mock ParserRepository ---

type MockParserRepository struct {
	mock.Mock
}

var _ portsrepo.ParserRepositoryWithTx = (*MockParserRepository)(nil)

func (m *MockParserRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockParserRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockParserRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockParserRepository) FindRunByDate(ctx context.Context, date time.Time) (*domain.ParserRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParserRun), args.Error(1)
}

func (m *MockParserRepository) FindSnapshotsByReference(ctx context.Context, tx pgx.Tx, reference string) ([]domain.ParserInvoice, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParserInvoice), args.Error(1)
}

func (m *MockParserRepository) GetOrCreateRun(ctx context.Context, tx pgx.Tx, date time.Time) (*domain.ParserRun, error) {
	args := m.Called(ctx, tx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParserRun), args.Error(1)
}

func (m *MockParserRepository) SaveSnapshot(ctx context.Context, tx pgx.Tx, snapshot domain.ParserInvoice) error {
	args := m.Called(ctx, tx, snapshot)
	return args.Error(0)
}

// --- Mock OracleRepository ---

type MockOracleRepository struct {
	mock.Mock
}

var _ portsrepo.OracleRepositoryFacade = (*MockOracleRepository)(nil)

func (m *MockOracleRepository) FindSystemByID(ctx context.Context, systemID string) (*domain.InterfaceSystem, error) {
	args := m.Called(ctx, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterfaceSystem), args.Error(1)
}

func (m *MockOracleRepository) OpenPeriodExists(ctx context.Context, tx pgx.Tx, periodName string) (bool, error) {
	args := m.Called(ctx, tx, periodName)
	return args.Bool(0), args.Error(1)
}

func (m *MockOracleRepository) AccountCodeExists(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	args := m.Called(ctx, tx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOracleRepository) SaveInterfaceRecords(ctx context.Context, tx pgx.Tx, records []domain.InterfaceRecord) error {
	args := m.Called(ctx, tx, records)
	return args.Error(0)
}

func (m *MockOracleRepository) ListInterfaceRecordsByDate(ctx context.Context, date time.Time) ([]domain.InterfaceRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterfaceRecord), args.Error(1)
}

// --- Mock InterfaceWriter ---

type MockInterfaceWriter struct {
	mock.Mock
}

var _ portssvc.InterfaceWriter = (*MockInterfaceWriter)(nil)

func (m *MockInterfaceWriter) AddToInterface(ctx context.Context, tx pgx.Tx, transDate time.Time, totals domain.CodeTotals, system domain.InterfaceSystem) ([]domain.InterfaceRecord, error) {
	args := m.Called(ctx, tx, transDate, totals, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterfaceRecord), args.Error(1)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) ParserRunSucceeded(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string) error {
	args := m.Called(ctx, transDate, totals, systemName, systemID)
	return args.Error(0)
}

func (m *MockNotifier) ParserRunFailed(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string, errorTrace string) error {
	args := m.Called(ctx, transDate, totals, systemName, systemID, errorTrace)
	return args.Error(0)
}
