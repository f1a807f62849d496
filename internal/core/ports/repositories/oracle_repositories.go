package repositories

import (
	"context"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OracleRegistryReader defines read operations over the oracle integration
// registries: systems, account codes and open periods.
type OracleRegistryReader interface {
	// FindSystemByID retrieves the interface system registered for oracle
	// integration under the given system id.
	FindSystemByID(ctx context.Context, systemID string) (*domain.InterfaceSystem, error)

	// OpenPeriodExists reports whether the named accounting period is open.
	OpenPeriodExists(ctx context.Context, tx pgx.Tx, periodName string) (bool, error)

	// AccountCodeExists reports whether the activity code is registered.
	AccountCodeExists(ctx context.Context, tx pgx.Tx, code string) (bool, error)
}

// InterfaceRecordWriter defines write operations for posted interface rows.
type InterfaceRecordWriter interface {
	// SaveInterfaceRecords persists the posted rows for one run.
	SaveInterfaceRecords(ctx context.Context, tx pgx.Tx, records []domain.InterfaceRecord) error
}

// InterfaceRecordReader defines pool-backed reads for API consumers.
type InterfaceRecordReader interface {
	// ListInterfaceRecordsByDate retrieves the rows posted for a receipt date.
	ListInterfaceRecordsByDate(ctx context.Context, date time.Time) ([]domain.InterfaceRecord, error)
}

// OracleRepositoryFacade combines all oracle registry and interface
// repository interfaces.
type OracleRepositoryFacade interface {
	OracleRegistryReader
	InterfaceRecordWriter
	InterfaceRecordReader
}
