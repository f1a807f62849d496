package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/ParksWS/payments_recon_app/internal/models"
	"github.com/ParksWS/payments_recon_app/internal/utils/mapping"
)

type PgxParserRepository struct {
	BaseRepository
}

// newPgxParserRepository creates a new repository for reconciliation run state.
func newPgxParserRepository(pool *pgxpool.Pool) portsrepo.ParserRepositoryWithTx {
	return &PgxParserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxParserRepository implements portsrepo.ParserRepositoryWithTx
var _ portsrepo.ParserRepositoryWithTx = (*PgxParserRepository)(nil)

// FindRunByDate retrieves the parser run for a processing date, if any.
func (r *PgxParserRepository) FindRunByDate(ctx context.Context, date time.Time) (*domain.ParserRun, error) {
	query := `
		SELECT run_id, date_parsed
		FROM oracle_parser_runs
		WHERE date_parsed = $1::date;
	`
	var m models.ParserRun
	err := r.Pool.QueryRow(ctx, query, date).Scan(&m.RunID, &m.DateParsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no parser run for date %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find parser run: %w", err)
	}
	return &domain.ParserRun{RunID: m.RunID, DateParsed: m.DateParsed}, nil
}

// GetOrCreateRun returns the run for the date, creating it when absent.
// Concurrent creators for the same date converge on the existing row.
func (r *PgxParserRepository) GetOrCreateRun(ctx context.Context, tx pgx.Tx, date time.Time) (*domain.ParserRun, error) {
	query := `
		INSERT INTO oracle_parser_runs (run_id, date_parsed)
		VALUES ($1, $2::date)
		ON CONFLICT (date_parsed) DO UPDATE SET date_parsed = EXCLUDED.date_parsed
		RETURNING run_id, date_parsed;
	`
	var m models.ParserRun
	if err := tx.QueryRow(ctx, query, uuid.NewString(), date).Scan(&m.RunID, &m.DateParsed); err != nil {
		return nil, fmt.Errorf("failed to get or create parser run: %w", err)
	}
	return &domain.ParserRun{RunID: m.RunID, DateParsed: m.DateParsed}, nil
}

// FindSnapshotsByReference retrieves every prior snapshot recorded for an
// invoice reference, oldest first.
func (r *PgxParserRepository) FindSnapshotsByReference(ctx context.Context, tx pgx.Tx, reference string) ([]domain.ParserInvoice, error) {
	query := `
		SELECT snapshot_id, reference, run_id, details
		FROM oracle_parser_invoices
		WHERE reference = $1
		ORDER BY created_at ASC, snapshot_id ASC;
	`
	rows, err := tx.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for invoice %s: %w", reference, err)
	}
	defer rows.Close()

	var snapshots []domain.ParserInvoice
	for rows.Next() {
		var m models.ParserInvoice
		if err := rows.Scan(&m.SnapshotID, &m.Reference, &m.RunID, &m.Details); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		lines, err := mapping.SnapshotDetailsFromJSON(m.Details)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", m.SnapshotID, err)
		}
		snapshots = append(snapshots, domain.ParserInvoice{
			SnapshotID: m.SnapshotID,
			Reference:  m.Reference,
			RunID:      m.RunID,
			Lines:      lines,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading snapshots for invoice %s: %w", reference, err)
	}
	return snapshots, nil
}

// SaveSnapshot persists one invoice's line-level movement for a run.
func (r *PgxParserRepository) SaveSnapshot(ctx context.Context, tx pgx.Tx, snapshot domain.ParserInvoice) error {
	details, err := mapping.SnapshotDetailsToJSON(snapshot.Lines)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO oracle_parser_invoices (snapshot_id, reference, run_id, details, created_at)
		VALUES ($1, $2, $3, $4, now());
	`
	if _, err := tx.Exec(ctx, query, snapshot.SnapshotID, snapshot.Reference, snapshot.RunID, details); err != nil {
		return fmt.Errorf("failed to save snapshot for invoice %s: %w", snapshot.Reference, err)
	}
	return nil
}
