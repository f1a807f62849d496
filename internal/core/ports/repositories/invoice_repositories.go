package repositories

import (
	"context"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InvoiceReader defines read operations for invoice and order line data.
// Methods taking a pgx.Tx participate in a caller-managed transaction so the
// engines see a consistent snapshot for the whole run.
type InvoiceReader interface {
	// FindInvoiceByReference retrieves an invoice by its unique payment reference.
	FindInvoiceByReference(ctx context.Context, tx pgx.Tx, reference string) (*domain.Invoice, error)

	// FindOrderLines retrieves the lines of an order with their allocation
	// ledgers populated, in ascending line id order.
	FindOrderLines(ctx context.Context, tx pgx.Tx, orderNumber string) ([]domain.Line, error)

	// FindInvoiceWithLines is a pool-backed read for API consumers; it returns
	// the invoice together with its lines (empty when no order is attached).
	FindInvoiceWithLines(ctx context.Context, reference string) (*domain.Invoice, []domain.Line, error)
}

// LineAllocationWriter defines write operations for line allocation ledgers.
type LineAllocationWriter interface {
	// SaveLineAllocations persists the line's payment, refund and deduction
	// allocation sets, replacing what was previously stored for the line.
	SaveLineAllocations(ctx context.Context, tx pgx.Tx, line domain.Line) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	LineAllocationWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
