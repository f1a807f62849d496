package services

import (
	"context"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

// AllocationSvcFacade exposes the allocation engine.
type AllocationSvcFacade interface {
	// UpdatePayments re-derives the invoice's line-level allocation ledgers
	// from all associated gateway transactions and persists them, returning
	// the updated lines. The whole operation is atomic.
	UpdatePayments(ctx context.Context, invoiceReference string) ([]domain.Line, error)
}
