package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
)

// LogNotifier reports run outcomes to the structured log only. It is the
// fallback when no SMTP host is configured, and keeps local development free
// of mail infrastructure.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier() portssvc.Notifier {
	return &LogNotifier{}
}

// Ensure LogNotifier implements the portssvc.Notifier interface
var _ portssvc.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) ParserRunSucceeded(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Reconciliation run succeeded",
		slog.String("date", transDate.Format("2006-01-02")),
		slog.String("system_id", systemID),
		slog.String("system_name", systemName),
		slog.Int("account_codes", len(totals)),
	)
	return nil
}

func (n *LogNotifier) ParserRunFailed(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string, errorTrace string) error {
	middleware.GetLoggerFromCtx(ctx).Error("Reconciliation run failed",
		slog.String("date", transDate.Format("2006-01-02")),
		slog.String("system_id", systemID),
		slog.String("system_name", systemName),
		slog.String("trace", errorTrace),
	)
	return nil
}
