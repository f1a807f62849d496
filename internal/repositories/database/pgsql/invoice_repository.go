package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/ParksWS/payments_recon_app/internal/models"
	"github.com/ParksWS/payments_recon_app/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice and order line data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

// Helper to convert models.OrderLine from DB to domain.Line
func toDomainLine(m models.OrderLine) (domain.Line, error) {
	payments, err := mapping.AllocationSetFromJSON(m.PaymentDetails)
	if err != nil {
		return domain.Line{}, fmt.Errorf("line %d payment details: %w", m.LineID, err)
	}
	refunds, err := mapping.AllocationSetFromJSON(m.RefundDetails)
	if err != nil {
		return domain.Line{}, fmt.Errorf("line %d refund details: %w", m.LineID, err)
	}
	deductions, err := mapping.AllocationSetFromJSON(m.DeductionDetails)
	if err != nil {
		return domain.Line{}, fmt.Errorf("line %d deduction details: %w", m.LineID, err)
	}
	return domain.Line{
		LineID:           m.LineID,
		OrderNumber:      m.OrderNumber,
		Description:      m.Description,
		PriceInclTax:     m.PriceInclTax,
		OracleCode:       m.OracleCode,
		PaymentDetails:   payments,
		RefundDetails:    refunds,
		DeductionDetails: deductions,
	}, nil
}

const findInvoiceQuery = `
	SELECT reference, system_id, COALESCE(order_number, ''), payment_amount, refund_amount, deduction_amount
	FROM invoices
	WHERE reference = $1;
`

func scanInvoice(row pgx.Row, reference string) (*domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.Reference,
		&m.SystemID,
		&m.OrderNumber,
		&m.PaymentAmount,
		&m.RefundAmount,
		&m.DeductionAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, reference)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", reference, err)
	}
	return &domain.Invoice{
		Reference:       m.Reference,
		SystemID:        m.SystemID,
		OrderNumber:     m.OrderNumber,
		PaymentAmount:   m.PaymentAmount,
		RefundAmount:    m.RefundAmount,
		DeductionAmount: m.DeductionAmount,
	}, nil
}

// FindInvoiceByReference retrieves an invoice by its unique payment reference
// within the caller's transaction.
func (r *PgxInvoiceRepository) FindInvoiceByReference(ctx context.Context, tx pgx.Tx, reference string) (*domain.Invoice, error) {
	return scanInvoice(tx.QueryRow(ctx, findInvoiceQuery, reference), reference)
}

const findOrderLinesQuery = `
	SELECT line_id, order_number, description, price_incl_tax, oracle_code,
	       payment_details, refund_details, deduction_details
	FROM order_lines
	WHERE order_number = $1
	ORDER BY line_id ASC;
`

func queryOrderLines(ctx context.Context, q querier, orderNumber string) ([]domain.Line, error) {
	rows, err := q.Query(ctx, findOrderLinesQuery, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for order %s: %w", orderNumber, err)
	}
	defer rows.Close()

	var lines []domain.Line
	for rows.Next() {
		var m models.OrderLine
		if err := rows.Scan(
			&m.LineID,
			&m.OrderNumber,
			&m.Description,
			&m.PriceInclTax,
			&m.OracleCode,
			&m.PaymentDetails,
			&m.RefundDetails,
			&m.DeductionDetails,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line, err := toDomainLine(m)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading lines for order %s: %w", orderNumber, err)
	}
	return lines, nil
}

// FindOrderLines retrieves the lines of an order with their allocation ledgers
// populated, in ascending line id order.
func (r *PgxInvoiceRepository) FindOrderLines(ctx context.Context, tx pgx.Tx, orderNumber string) ([]domain.Line, error) {
	return queryOrderLines(ctx, tx, orderNumber)
}

// FindInvoiceWithLines is a pool-backed read for API consumers.
func (r *PgxInvoiceRepository) FindInvoiceWithLines(ctx context.Context, reference string) (*domain.Invoice, []domain.Line, error) {
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, findInvoiceQuery, reference), reference)
	if err != nil {
		return nil, nil, err
	}
	if !invoice.HasOrder() {
		return invoice, nil, nil
	}
	lines, err := queryOrderLines(ctx, r.Pool, invoice.OrderNumber)
	if err != nil {
		return nil, nil, err
	}
	return invoice, lines, nil
}

// SaveLineAllocations persists the line's three allocation ledgers, replacing
// what was previously stored.
func (r *PgxInvoiceRepository) SaveLineAllocations(ctx context.Context, tx pgx.Tx, line domain.Line) error {
	payments, err := mapping.AllocationSetToJSON(line.PaymentDetails)
	if err != nil {
		return err
	}
	refunds, err := mapping.AllocationSetToJSON(line.RefundDetails)
	if err != nil {
		return err
	}
	deductions, err := mapping.AllocationSetToJSON(line.DeductionDetails)
	if err != nil {
		return err
	}

	query := `
		UPDATE order_lines
		SET payment_details = $2, refund_details = $3, deduction_details = $4
		WHERE line_id = $1;
	`
	tag, err := tx.Exec(ctx, query, line.LineID, payments, refunds, deductions)
	if err != nil {
		return fmt.Errorf("failed to save allocations for line %d: %w", line.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order line %d", apperrors.ErrNotFound, line.LineID)
	}
	return nil
}
