package repositories

import (
	"context"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ParserRunReader defines read operations for reconciliation run history.
type ParserRunReader interface {
	// FindRunByDate retrieves the parser run for a processing date, if any.
	FindRunByDate(ctx context.Context, date time.Time) (*domain.ParserRun, error)

	// FindSnapshotsByReference retrieves every prior snapshot recorded for an
	// invoice reference, oldest first.
	FindSnapshotsByReference(ctx context.Context, tx pgx.Tx, reference string) ([]domain.ParserInvoice, error)
}

// ParserRunWriter defines write operations for reconciliation run state.
type ParserRunWriter interface {
	// GetOrCreateRun returns the run for the date, creating it when absent.
	// Re-running a date reuses the existing row.
	GetOrCreateRun(ctx context.Context, tx pgx.Tx, date time.Time) (*domain.ParserRun, error)

	// SaveSnapshot persists one invoice's line-level movement for a run.
	SaveSnapshot(ctx context.Context, tx pgx.Tx, snapshot domain.ParserInvoice) error
}

// ParserRepositoryFacade combines all parser-run repository interfaces.
type ParserRepositoryFacade interface {
	ParserRunReader
	ParserRunWriter
}

// ParserRepositoryWithTx extends ParserRepositoryFacade with transaction capabilities
type ParserRepositoryWithTx interface {
	ParserRepositoryFacade
	TransactionManager
}
