package services

import (
	"context"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

// Notifier reports the outcome of a reconciliation run to operators. Calls
// are synchronous; a notifier failure inside a run is fatal to the run.
type Notifier interface {
	// ParserRunSucceeded reports a completed run and the amounts posted per
	// account code.
	ParserRunSucceeded(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string) error

	// ParserRunFailed reports a failed run together with the formatted error.
	ParserRunFailed(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string, errorTrace string) error
}
