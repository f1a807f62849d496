package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
)

var oneHundred = decimal.NewFromInt(100)

// interfaceService posts per-code net movement as ledger interface rows,
// optionally routing a configured percentage of every amount to a dedicated
// deduction account code.
type interfaceService struct {
	oracleRepo portsrepo.OracleRepositoryFacade
}

// NewInterfaceService creates a new interface writer.
func NewInterfaceService(oracleRepo portsrepo.OracleRepositoryFacade) portssvc.InterfaceWriter {
	return &interfaceService{oracleRepo: oracleRepo}
}

// Ensure interfaceService implements the portssvc.InterfaceWriter interface
var _ portssvc.InterfaceWriter = (*interfaceService)(nil)

// AddToInterface posts one row per account code carrying non-zero movement.
// Preconditions fail before anything is written: the accounting period for
// transDate must be open, and a system with percentage deduction enabled must
// carry both a percentage and a deduction account code.
//
// With deduction enabled, each amount is split: the remainder
// amount*(100-percentage)/100 is posted under the original code, and the
// deducted portions of every code accumulate into a single combined row under
// the system's deduction account code, saved last. Codes are processed in
// ascending order so repeated runs post rows deterministically.
func (s *interfaceService) AddToInterface(ctx context.Context, tx pgx.Tx, transDate time.Time, totals domain.CodeTotals, system domain.InterfaceSystem) ([]domain.InterfaceRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	periodName := domain.OpenPeriodName(transDate)
	open, err := s.oracleRepo.OpenPeriodExists(ctx, tx, periodName)
	if err != nil {
		return nil, fmt.Errorf("failed to check open period %s: %w", periodName, err)
	}
	if !open {
		return nil, fmt.Errorf("%w: there is currently no open period for transactions done on %s",
			apperrors.ErrPeriodClosed, transDate.Format("2006-01-02"))
	}

	if system.DeductPercentage && (system.Percentage.IsZero() || system.PercentageAccountCode == "") {
		return nil, fmt.Errorf("%w: a deduction percentage and an account code are required when deduction is enabled",
			apperrors.ErrConfiguration)
	}

	dateStr := transDate.Format("2006-01-02")
	now := time.Now()

	var deductionRow *domain.InterfaceRecord
	if system.DeductPercentage {
		registered, err := s.oracleRepo.AccountCodeExists(ctx, tx, system.PercentageAccountCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check deduction account code %s: %w", system.PercentageAccountCode, err)
		}
		if !registered {
			return nil, fmt.Errorf("%w: the account code set up for deduction does not exist: %s",
				apperrors.ErrInvalidAccountCode, system.PercentageAccountCode)
		}
		deductionRow = &domain.InterfaceRecord{
			RecordID:     uuid.NewString(),
			ReceiptDate:  transDate,
			ActivityName: system.PercentageAccountCode,
			Amount:       decimal.Zero,
			CustomerName: system.SystemName,
			Description:  system.PercentageAccountCode,
			Comments:     fmt.Sprintf("%s GST/%s", system.PercentageAccountCode, dateStr),
			Status:       domain.InterfaceStatusNew,
			StatusDate:   now,
		}
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	records := make([]domain.InterfaceRecord, 0, len(codes))
	for _, code := range codes {
		amount := totals[code]
		if amount.IsZero() {
			continue
		}

		registered, err := s.oracleRepo.AccountCodeExists(ctx, tx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check account code %s: %w", code, err)
		}
		if !registered {
			return nil, fmt.Errorf("%w: %s is not a valid account code", apperrors.ErrInvalidAccountCode, code)
		}

		posted := amount
		if system.DeductPercentage {
			remainder := oneHundred.Sub(system.Percentage).Div(oneHundred).Mul(amount)
			deductionRow.Amount = deductionRow.Amount.Add(amount.Sub(remainder))
			posted = remainder
		}

		records = append(records, domain.InterfaceRecord{
			RecordID:     uuid.NewString(),
			ReceiptDate:  transDate,
			ActivityName: code,
			Amount:       posted,
			CustomerName: system.SystemName,
			Description:  code,
			Comments:     fmt.Sprintf("%s GST/%s", code, dateStr),
			Status:       domain.InterfaceStatusNew,
			StatusDate:   now,
		})
	}

	if deductionRow != nil {
		records = append(records, *deductionRow)
	}

	if len(records) > 0 {
		if err := s.oracleRepo.SaveInterfaceRecords(ctx, tx, records); err != nil {
			return nil, fmt.Errorf("failed to save interface records: %w", err)
		}
	}

	logger.Info("Posted interface rows",
		slog.String("date", dateStr),
		slog.String("system_id", system.SystemID),
		slog.Int("rows", len(records)),
	)
	return records, nil
}
