package repositories

import (
	"context"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// GatewayTransactionReader defines read operations over settled payment
// gateway records. Transactions are returned in ascending transaction id
// order; allocation order depends on it. The allocated counters on each
// transaction are computed against the line allocation ledger at read time.
type GatewayTransactionReader interface {
	// FindCardTxnsByInvoice retrieves all card transactions referencing the invoice.
	FindCardTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CardTransaction, error)

	// FindBpayTxnsByInvoice retrieves all bpay transactions referencing the invoice.
	FindBpayTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.BpayTransaction, error)

	// FindCashTxnsByInvoice retrieves all cash movements recorded against the invoice.
	FindCashTxnsByInvoice(ctx context.Context, tx pgx.Tx, reference string) ([]domain.CashTransaction, error)

	// FindSettledCardTxnsByDate retrieves approved card transactions settled on the date.
	FindSettledCardTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CardTransaction, error)

	// FindSettledBpayTxnsByDate retrieves cleared bpay transactions processed on the date.
	FindSettledBpayTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.BpayTransaction, error)

	// FindCashTxnsByDate retrieves all cash movements recorded on the date.
	FindCashTxnsByDate(ctx context.Context, tx pgx.Tx, date time.Time) ([]domain.CashTransaction, error)
}
