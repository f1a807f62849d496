package services

import (
	"context"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ReconciliationSvcFacade exposes the reconciliation engine.
type ReconciliationSvcFacade interface {
	// RunParser reconciles the settled gateway transactions of one processing
	// date (YYYY-MM-DD) for one owning system, posting net new movement per
	// account code to the oracle interface. It returns the per-code totals of
	// the run. The whole run is atomic.
	RunParser(ctx context.Context, date string, systemID string, systemName string) (domain.CodeTotals, error)
}

// InterfaceWriter posts per-code net amounts into the oracle interface inside
// an already-open transaction, so the rows commit or roll back with the rest
// of the run.
type InterfaceWriter interface {
	// AddToInterface validates the open period and account codes, applies
	// percentage deduction routing when the system is configured for it, and
	// persists one row per non-zero account code (plus a single accumulated
	// deduction row). It returns the rows it created.
	AddToInterface(ctx context.Context, tx pgx.Tx, transDate time.Time, totals domain.CodeTotals, system domain.InterfaceSystem) ([]domain.InterfaceRecord, error)
}
