package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/ParksWS/payments_recon_app/internal/models"
)

// PgxGatewayRepository reads settled gateway transaction records. The
// system-wide allocated counters are not stored on the transaction rows; each
// query derives them from the order line allocation ledgers so reads always
// reflect the ledger the allocation engine writes.
type PgxGatewayRepository struct {
	BaseRepository
}

// newPgxGatewayRepository creates a new repository for gateway transaction data.
func newPgxGatewayRepository(pool *pgxpool.Pool) portsrepo.GatewayTransactionReader {
	return &PgxGatewayRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxGatewayRepository implements portsrepo.GatewayTransactionReader
var _ portsrepo.GatewayTransactionReader = (*PgxGatewayRepository)(nil)

// allocatedExpr sums one transaction's entries across every line ledger of the
// given details column for one source bucket.
func allocatedExpr(column, source string) string {
	return fmt.Sprintf(`COALESCE((
		SELECT SUM((l.%[1]s->'%[2]s'->>t.txn_id)::numeric)
		FROM order_lines l
		WHERE l.%[1]s->'%[2]s' ? t.txn_id
	), 0)`, column, source)
}

var cardSelect = fmt.Sprintf(`
	SELECT t.txn_id, t.crn, t.amount, t.action, t.response_code, t.settlement_date,
	       %s AS payment_allocated,
	       %s AS refund_allocated
	FROM card_transactions t
`, allocatedExpr("payment_details", "card"), allocatedExpr("refund_details", "card"))

func queryCardTxns(ctx context.Context, q querier, where string, arg any) ([]domain.CardTransaction, error) {
	rows, err := q.Query(ctx, cardSelect+where+" ORDER BY t.txn_id ASC;", arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query card transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.CardTransaction
	for rows.Next() {
		var m models.CardTransaction
		var t domain.CardTransaction
		if err := rows.Scan(&m.TxnID, &m.CRN, &m.Amount, &m.Action, &m.ResponseCode, &m.SettlementDate,
			&t.PaymentAllocated, &t.RefundAllocated); err != nil {
			return nil, fmt.Errorf("failed to scan card transaction: %w", err)
		}
		t.TxnID = m.TxnID
		t.CRN = m.CRN
		t.Amount = m.Amount
		t.Action = domain.CardAction(m.Action)
		t.ResponseCode = m.ResponseCode
		t.SettlementDate = m.SettlementDate
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading card transactions: %w", err)
	}
	return txns, nil
}

var bpaySelect = fmt.Sprintf(`
	SELECT t.txn_id, t.crn, t.amount, t.instruction_code, t.type_code, t.service_code, t.processed_date,
	       %s AS payment_allocated,
	       %s AS refund_allocated
	FROM bpay_transactions t
`, allocatedExpr("payment_details", "bpay"), allocatedExpr("refund_details", "bpay"))

func queryBpayTxns(ctx context.Context, q querier, where string, arg any) ([]domain.BpayTransaction, error) {
	rows, err := q.Query(ctx, bpaySelect+where+" ORDER BY t.txn_id ASC;", arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query bpay transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.BpayTransaction
	for rows.Next() {
		var m models.BpayTransaction
		var t domain.BpayTransaction
		if err := rows.Scan(&m.TxnID, &m.CRN, &m.Amount, &m.InstructionCode, &m.TypeCode, &m.ServiceCode,
			&m.ProcessedDate, &t.PaymentAllocated, &t.RefundAllocated); err != nil {
			return nil, fmt.Errorf("failed to scan bpay transaction: %w", err)
		}
		t.TxnID = m.TxnID
		t.CRN = m.CRN
		t.Amount = m.Amount
		t.InstructionCode = m.InstructionCode
		t.TypeCode = m.TypeCode
		t.ServiceCode = m.ServiceCode
		t.ProcessedDate = m.ProcessedDate
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bpay transactions: %w", err)
	}
	return txns, nil
}

var cashSelect = fmt.Sprintf(`
	SELECT t.txn_id, t.invoice_reference, t.amount, t.txn_type, t.created,
	       %s AS payment_allocated,
	       %s AS refund_allocated,
	       %s AS deduction_allocated
	FROM cash_transactions t
`, allocatedExpr("payment_details", "cash"), allocatedExpr("refund_details", "cash"), allocatedExpr("deduction_details", "cash"))

func queryCashTxns(ctx context.Context, q querier, where string, arg any) ([]domain.CashTransaction, error) {
	rows, err := q.Query(ctx, cashSelect+where+" ORDER BY t.txn_id ASC;", arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.CashTransaction
	for rows.Next() {
		var m models.CashTransaction
		var t domain.CashTransaction
		if err := rows.Scan(&m.TxnID, &m.InvoiceReference, &m.Amount, &m.Type, &m.Created,
			&t.PaymentAllocated, &t.RefundAllocated, &t.DeductionAllocated); err != nil {
			return nil, fmt.Errorf("failed to scan cash transaction: %w", err)
		}
		t.TxnID = m.TxnID
		t.InvoiceReference = m.InvoiceReference
		t.Amount = m.Amount
		t.Type = domain.CashType(m.Type)
		t.Created = m.Created
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading cash transactions: %w", err)
	}
	return txns, nil
}

// FindCardTxnsByInvoice retrieves all card transactions referencing the invoice.
func (r *PgxGatewayRepository) FindCardTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CardTransaction, error) {
	return queryCardTxns(ctx, tx, "WHERE t.crn = $1", reference)
}

// FindBpayTxnsByInvoice retrieves all bpay transactions referencing the invoice.
func (r *PgxGatewayRepository) FindBpayTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.BpayTransaction, error) {
	return queryBpayTxns(ctx, tx, "WHERE t.crn = $1", reference)
}

// FindCashTxnsByInvoice retrieves all cash movements recorded against the invoice.
func (r *PgxGatewayRepository) FindCashTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CashTransaction, error) {
	return queryCashTxns(ctx, tx, "WHERE t.invoice_reference = $1", reference)
}

// FindSettledCardTxnsByDate retrieves approved card transactions settled on the date.
func (r *PgxGatewayRepository) FindSettledCardTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CardTransaction, error) {
	return queryCardTxns(ctx, tx, "WHERE t.settlement_date = $1::date AND t.response_code = '0'", date)
}

// FindSettledBpayTxnsByDate retrieves cleared bpay transactions processed on the date.
func (r *PgxGatewayRepository) FindSettledBpayTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.BpayTransaction, error) {
	return queryBpayTxns(ctx, tx, "WHERE t.processed_date::date = $1::date AND t.service_code = '0'", date)
}

// FindCashTxnsByDate retrieves all cash movements recorded on the date.
func (r *PgxGatewayRepository) FindCashTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CashTransaction, error) {
	return queryCashTxns(ctx, tx, "WHERE t.created::date = $1::date", date)
}
