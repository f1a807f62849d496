package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
	"github.com/ParksWS/payments_recon_app/internal/utils/locking"
)

// dateLayout is the processing date format accepted by the parser.
const dateLayout = "2006-01-02"

// reconciliationService computes, per processing date and owning system, the
// net new money movement per account code and posts it to the oracle
// interface. Re-running a date is safe: every run diffs against the summed
// snapshot history, so already-reported amounts produce zero movement.
type reconciliationService struct {
	parserRepo  portsrepo.ParserRepositoryWithTx
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	gatewayRepo portsrepo.GatewayTransactionReader
	oracleRepo  portsrepo.OracleRepositoryFacade
	writer      portssvc.InterfaceWriter
	notifier    portssvc.Notifier
	locks       *locking.KeyedMutex
}

// NewReconciliationService creates a new reconciliation engine.
func NewReconciliationService(
	parserRepo portsrepo.ParserRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	gatewayRepo portsrepo.GatewayTransactionReader,
	oracleRepo portsrepo.OracleRepositoryFacade,
	writer portssvc.InterfaceWriter,
	notifier portssvc.Notifier,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		parserRepo:  parserRepo,
		invoiceRepo: invoiceRepo,
		gatewayRepo: gatewayRepo,
		oracleRepo:  oracleRepo,
		writer:      writer,
		notifier:    notifier,
		locks:       locking.New(),
	}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// RunParser reconciles one processing date for one owning system. Any failure
// after the date parses triggers a failure notification carrying the error,
// and the error is returned to the caller; nothing is persisted on failure.
func (s *reconciliationService) RunParser(ctx context.Context, date string, systemID string, systemName string) (domain.CodeTotals, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	transDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: processing date must be formatted YYYY-MM-DD, got %q", apperrors.ErrValidation, date)
	}

	unlock := s.locks.Lock("parser:" + date + ":" + systemID)
	defer unlock()

	totals := domain.CodeTotals{}
	if err := s.run(ctx, transDate, totals, systemID, systemName); err != nil {
		logger.Error("Reconciliation run failed",
			slog.String("date", date),
			slog.String("system_id", systemID),
			slog.String("error", err.Error()),
		)
		if notifyErr := s.notifier.ParserRunFailed(ctx, transDate, totals, systemName, systemID, err.Error()); notifyErr != nil {
			logger.Error("Failed to send failure notification", slog.String("error", notifyErr.Error()))
		}
		return nil, err
	}
	return totals, nil
}

// run performs the whole reconciliation inside one transaction. The success
// notification is sent before commit so a notifier failure rolls the run back.
func (s *reconciliationService) run(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemID string, systemName string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	system, err := s.oracleRepo.FindSystemByID(ctx, systemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no system with id %s exists for integration with oracle", apperrors.ErrNotFound, systemID)
		}
		return fmt.Errorf("failed to load interface system %s: %w", systemID, err)
	}

	tx, err := s.parserRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.parserRepo.Rollback(ctx, tx) // no-op once committed

	run, err := s.parserRepo.GetOrCreateRun(ctx, tx, transDate)
	if err != nil {
		return fmt.Errorf("failed to get or create parser run: %w", err)
	}

	cards, err := s.gatewayRepo.FindSettledCardTxnsByDate(ctx, tx, transDate)
	if err != nil {
		return fmt.Errorf("failed to load settled card transactions: %w", err)
	}
	bpays, err := s.gatewayRepo.FindSettledBpayTxnsByDate(ctx, tx, transDate)
	if err != nil {
		return fmt.Errorf("failed to load settled bpay transactions: %w", err)
	}
	cashes, err := s.gatewayRepo.FindCashTxnsByDate(ctx, tx, transDate)
	if err != nil {
		return fmt.Errorf("failed to load cash transactions: %w", err)
	}

	// Only money that moved on the processing date counts toward the current
	// totals; allocations from other dates are covered by their own runs.
	todayCard := txnIDSetOf(len(cards))
	for _, t := range cards {
		todayCard[t.TxnID] = struct{}{}
	}
	todayBpay := txnIDSetOf(len(bpays))
	for _, t := range bpays {
		todayBpay[t.TxnID] = struct{}{}
	}
	todayCash := txnIDSetOf(len(cashes))
	for _, t := range cashes {
		todayCash[t.TxnID] = struct{}{}
	}

	invoices, err := s.collectInvoices(ctx, tx, cards, bpays, systemID)
	if err != nil {
		return err
	}

	snapshots := 0
	for _, invoice := range invoices {
		saved, err := s.reconcileInvoice(ctx, tx, invoice, run, totals, todayCard, todayBpay, todayCash)
		if err != nil {
			return err
		}
		if saved {
			snapshots++
		}
	}

	records, err := s.writer.AddToInterface(ctx, tx, transDate, totals, *system)
	if err != nil {
		return err
	}

	if err := s.notifier.ParserRunSucceeded(ctx, transDate, totals, systemName, systemID); err != nil {
		return fmt.Errorf("failed to send run notification: %w", err)
	}

	if err := s.parserRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Reconciliation run completed",
		slog.String("date", transDate.Format(dateLayout)),
		slog.String("system_id", systemID),
		slog.Int("invoices", len(invoices)),
		slog.Int("snapshots", snapshots),
		slog.Int("interface_rows", len(records)),
	)
	return nil
}

// collectInvoices resolves the unique invoice references behind the date's
// settled transactions, card references first, keeping only invoices owned by
// the given system. A reference without an invoice is a data integrity
// failure and aborts the run.
func (s *reconciliationService) collectInvoices(ctx context.Context, tx pgx.Tx, cards []domain.CardTransaction, bpays []domain.BpayTransaction, systemID string) ([]*domain.Invoice, error) {
	seen := map[string]struct{}{}
	var invoices []*domain.Invoice

	appendRef := func(reference string) error {
		if _, ok := seen[reference]; ok {
			return nil
		}
		seen[reference] = struct{}{}
		invoice, err := s.invoiceRepo.FindInvoiceByReference(ctx, tx, reference)
		if err != nil {
			return fmt.Errorf("failed to load invoice %s referenced by settled transactions: %w", reference, err)
		}
		if invoice.SystemID == systemID {
			invoices = append(invoices, invoice)
		}
		return nil
	}

	for _, t := range cards {
		if err := appendRef(t.CRN); err != nil {
			return nil, err
		}
	}
	for _, t := range bpays {
		if err := appendRef(t.CRN); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// reconcileInvoice diffs every line of the invoice against its snapshot
// history, folds non-negative deltas into the run totals, and saves a new
// snapshot when the invoice moved. Payments add to the code totals; refunds
// and deductions subtract. It reports whether a snapshot was saved.
func (s *reconciliationService) reconcileInvoice(
	ctx context.Context,
	tx pgx.Tx,
	invoice *domain.Invoice,
	run *domain.ParserRun,
	totals domain.CodeTotals,
	todayCard, todayBpay, todayCash txnIDSet,
) (bool, error) {
	if !invoice.HasOrder() {
		return false, nil
	}

	lines, err := s.invoiceRepo.FindOrderLines(ctx, tx, invoice.OrderNumber)
	if err != nil {
		return false, fmt.Errorf("failed to load lines for order %s: %w", invoice.OrderNumber, err)
	}

	prior, err := s.parserRepo.FindSnapshotsByReference(ctx, tx, invoice.Reference)
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot history for invoice %s: %w", invoice.Reference, err)
	}
	priorByLine := sumSnapshotHistory(prior)

	snapshot := domain.ParserInvoice{
		SnapshotID: uuid.NewString(),
		Reference:  invoice.Reference,
		RunID:      run.RunID,
		Lines:      make(map[int64]domain.LineSnapshot, len(lines)),
	}

	for i := range lines {
		line := &lines[i]
		totals.Ensure(line.OracleCode)
		reported := priorByLine[line.LineID]
		current := domain.LineSnapshot{Code: line.OracleCode}

		// Cash payments never reach the oracle interface; only card and bpay
		// money is reconciled for payments and refunds, only cash for
		// deductions. Negative deltas are already-reported money and are
		// dropped, not subtracted.
		paidToday := sumForDate(line.PaymentDetails, domain.SourceCard, todayCard).
			Add(sumForDate(line.PaymentDetails, domain.SourceBpay, todayBpay))
		if payable := paidToday.Sub(reported.Payment); payable.GreaterThanOrEqual(decimal.Zero) {
			totals.Add(line.OracleCode, payable)
			current.Payment = payable
		}

		deductedToday := sumForDate(line.DeductionDetails, domain.SourceCash, todayCash)
		if deductible := deductedToday.Sub(reported.Deductions); deductible.GreaterThanOrEqual(decimal.Zero) {
			totals.Add(line.OracleCode, deductible.Neg())
			current.Deductions = deductible
		}

		refundedToday := sumForDate(line.RefundDetails, domain.SourceCard, todayCard).
			Add(sumForDate(line.RefundDetails, domain.SourceBpay, todayBpay))
		if refundable := refundedToday.Sub(reported.Refund); refundable.GreaterThanOrEqual(decimal.Zero) {
			totals.Add(line.OracleCode, refundable.Neg())
			current.Refund = refundable
		}

		snapshot.Lines[line.LineID] = current
	}

	if !snapshot.HasMovement() {
		return false, nil
	}
	if err := s.parserRepo.SaveSnapshot(ctx, tx, snapshot); err != nil {
		return false, fmt.Errorf("failed to save snapshot for invoice %s: %w", invoice.Reference, err)
	}
	return true, nil
}

type txnIDSet map[string]struct{}

func txnIDSetOf(size int) txnIDSet {
	return make(txnIDSet, size)
}

// sumForDate totals the line's allocations from one source restricted to
// transactions in the date's settled set.
func sumForDate(set domain.AllocationSet, source domain.TxnSource, settled txnIDSet) decimal.Decimal {
	var total decimal.Decimal
	for txnID, amount := range set[source] {
		if _, ok := settled[txnID]; ok {
			total = total.Add(amount)
		}
	}
	return total
}

// sumSnapshotHistory folds all prior snapshots into per-line cumulative
// reported totals. Line ids no longer present on the order may appear in
// history; they are summed and simply never matched.
func sumSnapshotHistory(history []domain.ParserInvoice) map[int64]domain.LineSnapshot {
	reported := map[int64]domain.LineSnapshot{}
	for _, p := range history {
		for lineID, ls := range p.Lines {
			t := reported[lineID]
			t.Payment = t.Payment.Add(ls.Payment)
			t.Refund = t.Refund.Add(ls.Refund)
			t.Deductions = t.Deductions.Add(ls.Deductions)
			reported[lineID] = t
		}
	}
	return reported
}
