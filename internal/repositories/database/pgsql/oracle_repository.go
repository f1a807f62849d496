package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/ParksWS/payments_recon_app/internal/models"
)

type PgxOracleRepository struct {
	BaseRepository
}

// newPgxOracleRepository creates a new repository for the oracle registries
// and the interface table.
func newPgxOracleRepository(pool *pgxpool.Pool) portsrepo.OracleRepositoryFacade {
	return &PgxOracleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOracleRepository implements portsrepo.OracleRepositoryFacade
var _ portsrepo.OracleRepositoryFacade = (*PgxOracleRepository)(nil)

// FindSystemByID retrieves the interface system registered under the given
// system id, together with its notification recipients.
func (r *PgxOracleRepository) FindSystemByID(ctx context.Context, systemID string) (*domain.InterfaceSystem, error) {
	query := `
		SELECT system_id, system_name, deduct_percentage, percentage, COALESCE(percentage_account_code, '')
		FROM oracle_interface_systems
		WHERE system_id = $1;
	`
	var m models.InterfaceSystem
	err := r.Pool.QueryRow(ctx, query, systemID).Scan(
		&m.SystemID,
		&m.SystemName,
		&m.DeductPercentage,
		&m.Percentage,
		&m.PercentageAccountCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: interface system %s", apperrors.ErrNotFound, systemID)
		}
		return nil, fmt.Errorf("failed to find interface system %s: %w", systemID, err)
	}

	recipientsQuery := `
		SELECT email
		FROM oracle_system_recipients
		WHERE system_id = $1
		ORDER BY email ASC;
	`
	rows, err := r.Pool.Query(ctx, recipientsQuery, systemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients for system %s: %w", systemID, err)
	}
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading recipients for system %s: %w", systemID, err)
	}

	return &domain.InterfaceSystem{
		SystemID:              m.SystemID,
		SystemName:            m.SystemName,
		DeductPercentage:      m.DeductPercentage,
		Percentage:            m.Percentage,
		PercentageAccountCode: m.PercentageAccountCode,
		Recipients:            recipients,
	}, nil
}

// OpenPeriodExists reports whether the named accounting period is open.
func (r *PgxOracleRepository) OpenPeriodExists(ctx context.Context, tx pgx.Tx, periodName string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM oracle_open_periods WHERE period_name = $1);`
	if err := tx.QueryRow(ctx, query, periodName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open period %s: %w", periodName, err)
	}
	return exists, nil
}

// AccountCodeExists reports whether the activity code is registered.
func (r *PgxOracleRepository) AccountCodeExists(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM oracle_account_codes WHERE activity_name = $1);`
	if err := tx.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account code %s: %w", code, err)
	}
	return exists, nil
}

// SaveInterfaceRecords persists the posted rows for one run in a single batch.
func (r *PgxOracleRepository) SaveInterfaceRecords(ctx context.Context, tx pgx.Tx, records []domain.InterfaceRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO oracle_interface_records (record_id, receipt_date, activity_name, amount, customer_name, description, comments, status, status_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.RecordID,
			rec.ReceiptDate,
			rec.ActivityName,
			rec.Amount,
			rec.CustomerName,
			rec.Description,
			rec.Comments,
			rec.Status,
			rec.StatusDate,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert interface records: %w", err)
	}
	return nil
}

// ListInterfaceRecordsByDate retrieves the rows posted for a receipt date.
func (r *PgxOracleRepository) ListInterfaceRecordsByDate(ctx context.Context, date time.Time) ([]domain.InterfaceRecord, error) {
	query := `
		SELECT record_id, receipt_date, activity_name, amount, customer_name, description, comments, status, status_date
		FROM oracle_interface_records
		WHERE receipt_date = $1::date
		ORDER BY activity_name ASC, record_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query interface records: %w", err)
	}
	defer rows.Close()

	var records []domain.InterfaceRecord
	for rows.Next() {
		var m models.InterfaceRecord
		if err := rows.Scan(
			&m.RecordID,
			&m.ReceiptDate,
			&m.ActivityName,
			&m.Amount,
			&m.CustomerName,
			&m.Description,
			&m.Comments,
			&m.Status,
			&m.StatusDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interface record: %w", err)
		}
		records = append(records, domain.InterfaceRecord{
			RecordID:     m.RecordID,
			ReceiptDate:  m.ReceiptDate,
			ActivityName: m.ActivityName,
			Amount:       m.Amount,
			CustomerName: m.CustomerName,
			Description:  m.Description,
			Comments:     m.Comments,
			Status:       m.Status,
			StatusDate:   m.StatusDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading interface records: %w", err)
	}
	return records, nil
}
