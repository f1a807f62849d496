package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
	"github.com/ParksWS/payments_recon_app/internal/utils/locking"
)

// allocationService incrementally assigns unallocated gateway transaction
// amounts onto invoice lines, per category, without ever disturbing amounts
// already recorded in the line ledgers.
type allocationService struct {
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	gatewayRepo portsrepo.GatewayTransactionReader
	locks       *locking.KeyedMutex
}

// NewAllocationService creates a new allocation engine.
func NewAllocationService(invoiceRepo portsrepo.InvoiceRepositoryWithTx, gatewayRepo portsrepo.GatewayTransactionReader) portssvc.AllocationSvcFacade {
	return &allocationService{
		invoiceRepo: invoiceRepo,
		gatewayRepo: gatewayRepo,
		locks:       locking.New(),
	}
}

// Ensure allocationService implements the portssvc.AllocationSvcFacade interface
var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// categoryState tracks one allocation category across the whole invoice: the
// gateway-reported cap and how much is already assigned against it.
type categoryState struct {
	cap       decimal.Decimal
	allocated decimal.Decimal
}

func (c *categoryState) open() bool {
	return c.allocated.LessThan(c.cap)
}

// txnFunds tracks how much of one gateway transaction remains unassigned to
// any line, for one category.
type txnFunds struct {
	amount    decimal.Decimal
	allocated decimal.Decimal
}

func (f *txnFunds) unallocated() decimal.Decimal {
	return f.amount.Sub(f.allocated)
}

type fundsKey struct {
	source   domain.TxnSource
	category domain.AllocationCategory
	txnID    string
}

type fundsTable map[fundsKey]*txnFunds

func (t fundsTable) put(source domain.TxnSource, category domain.AllocationCategory, txnID string, amount, allocated decimal.Decimal) error {
	if allocated.GreaterThan(amount) {
		return fmt.Errorf("%w: %s transaction %s has %s allocated against amount %s",
			apperrors.ErrAllocationOverflow, source, txnID, allocated.String(), amount.String())
	}
	t[fundsKey{source: source, category: category, txnID: txnID}] = &txnFunds{amount: amount, allocated: allocated}
	return nil
}

func (t fundsTable) get(source domain.TxnSource, category domain.AllocationCategory, txnID string) *txnFunds {
	return t[fundsKey{source: source, category: category, txnID: txnID}]
}

// UpdatePayments re-derives the invoice's line allocation ledgers from all
// associated gateway transactions. Runs inside a single transaction scoped to
// the invoice; nothing is persisted on failure.
func (s *allocationService) UpdatePayments(ctx context.Context, invoiceReference string) ([]domain.Line, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.Lock("invoice:" + invoiceReference)
	defer unlock()

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.invoiceRepo.Rollback(ctx, tx) // no-op once committed

	invoice, err := s.invoiceRepo.FindInvoiceByReference(ctx, tx, invoiceReference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invoice with reference %s does not exist", apperrors.ErrNotFound, invoiceReference)
		}
		logger.Error("Failed to load invoice for allocation", slog.String("reference", invoiceReference), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load invoice %s: %w", invoiceReference, err)
	}

	if !invoice.HasOrder() {
		// No order lines means nothing to allocate against.
		return nil, s.invoiceRepo.Commit(ctx, tx)
	}

	lines, err := s.invoiceRepo.FindOrderLines(ctx, tx, invoice.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for order %s: %w", invoice.OrderNumber, err)
	}

	cards, err := s.gatewayRepo.FindCardTxnsByInvoice(ctx, tx, invoiceReference)
	if err != nil {
		return nil, fmt.Errorf("failed to load card transactions for invoice %s: %w", invoiceReference, err)
	}
	bpays, err := s.gatewayRepo.FindBpayTxnsByInvoice(ctx, tx, invoiceReference)
	if err != nil {
		return nil, fmt.Errorf("failed to load bpay transactions for invoice %s: %w", invoiceReference, err)
	}
	cashes, err := s.gatewayRepo.FindCashTxnsByInvoice(ctx, tx, invoiceReference)
	if err != nil {
		return nil, fmt.Errorf("failed to load cash transactions for invoice %s: %w", invoiceReference, err)
	}

	payments := &categoryState{cap: invoice.PaymentAmount}
	refunds := &categoryState{cap: invoice.RefundAmount}
	deductions := &categoryState{cap: invoice.DeductionAmount}
	for i := range lines {
		payments.allocated = payments.allocated.Add(lines[i].PaymentDetails.Total())
		refunds.allocated = refunds.allocated.Add(lines[i].RefundDetails.Total())
		deductions.allocated = deductions.allocated.Add(lines[i].DeductionDetails.Total())
	}

	funds, err := buildFundsTable(cards, bpays, cashes)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		line := &lines[i]
		linePaid := line.PaymentDetails.Total()
		lineRefunded := line.RefundDetails.Total()
		lineDeducted := line.DeductionDetails.Total()

		// Transactions arrive from the repository in ascending transaction id
		// order; that order is the allocation priority.
		for _, card := range cards {
			if !card.Approved() {
				continue
			}
			switch card.Action {
			case domain.CardActionPayment:
				allocate(line.PaymentDetails, domain.SourceCard, card.TxnID, line.PriceInclTax, &linePaid, payments,
					funds.get(domain.SourceCard, domain.CategoryPayment, card.TxnID))
			case domain.CardActionRefund:
				allocate(line.RefundDetails, domain.SourceCard, card.TxnID, line.PriceInclTax, &lineRefunded, refunds,
					funds.get(domain.SourceCard, domain.CategoryRefund, card.TxnID))
			}
		}

		for _, bpay := range bpays {
			if !bpay.Approved() {
				continue
			}
			switch {
			case bpay.IsPayment():
				allocate(line.PaymentDetails, domain.SourceBpay, bpay.TxnID, line.PriceInclTax, &linePaid, payments,
					funds.get(domain.SourceBpay, domain.CategoryPayment, bpay.TxnID))
			case bpay.IsRefund():
				allocate(line.RefundDetails, domain.SourceBpay, bpay.TxnID, line.PriceInclTax, &lineRefunded, refunds,
					funds.get(domain.SourceBpay, domain.CategoryRefund, bpay.TxnID))
			}
		}

		for _, cash := range cashes {
			switch {
			case cash.CountsAsPayment():
				allocate(line.PaymentDetails, domain.SourceCash, cash.TxnID, line.PriceInclTax, &linePaid, payments,
					funds.get(domain.SourceCash, domain.CategoryPayment, cash.TxnID))
			case cash.Type == domain.CashMoveOut:
				allocate(line.DeductionDetails, domain.SourceCash, cash.TxnID, line.PriceInclTax, &lineDeducted, deductions,
					funds.get(domain.SourceCash, domain.CategoryDeduction, cash.TxnID))
			case cash.Type == domain.CashRefund:
				allocate(line.RefundDetails, domain.SourceCash, cash.TxnID, line.PriceInclTax, &lineRefunded, refunds,
					funds.get(domain.SourceCash, domain.CategoryRefund, cash.TxnID))
			}
		}

		if err := s.invoiceRepo.SaveLineAllocations(ctx, tx, *line); err != nil {
			logger.Error("Failed to persist line allocations", slog.Int64("line_id", line.LineID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to save allocations for line %d: %w", line.LineID, err)
		}
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Invoice allocations updated",
		slog.String("reference", invoiceReference),
		slog.Int("lines", len(lines)),
	)
	return lines, nil
}

// buildFundsTable seeds the per-transaction unassigned trackers from the
// system-wide allocated counters reported by the store.
func buildFundsTable(cards []domain.CardTransaction, bpays []domain.BpayTransaction, cashes []domain.CashTransaction) (fundsTable, error) {
	funds := fundsTable{}
	for _, card := range cards {
		if err := funds.put(domain.SourceCard, domain.CategoryPayment, card.TxnID, card.Amount, card.PaymentAllocated); err != nil {
			return nil, err
		}
		if err := funds.put(domain.SourceCard, domain.CategoryRefund, card.TxnID, card.Amount, card.RefundAllocated); err != nil {
			return nil, err
		}
	}
	for _, bpay := range bpays {
		if err := funds.put(domain.SourceBpay, domain.CategoryPayment, bpay.TxnID, bpay.Amount, bpay.PaymentAllocated); err != nil {
			return nil, err
		}
		if err := funds.put(domain.SourceBpay, domain.CategoryRefund, bpay.TxnID, bpay.Amount, bpay.RefundAllocated); err != nil {
			return nil, err
		}
	}
	for _, cash := range cashes {
		if err := funds.put(domain.SourceCash, domain.CategoryPayment, cash.TxnID, cash.Amount, cash.PaymentAllocated); err != nil {
			return nil, err
		}
		if err := funds.put(domain.SourceCash, domain.CategoryRefund, cash.TxnID, cash.Amount, cash.RefundAllocated); err != nil {
			return nil, err
		}
		if err := funds.put(domain.SourceCash, domain.CategoryDeduction, cash.TxnID, cash.Amount, cash.DeductionAllocated); err != nil {
			return nil, err
		}
	}
	return funds, nil
}

// allocate assigns as much of the transaction's unassigned amount to the line
// as the line price cap allows, provided the invoice-level category cap has
// room. The increment is min(line remainder, transaction unallocated); the
// invoice cap gates entry but does not trim the increment.
func allocate(details domain.AllocationSet, source domain.TxnSource, txnID string, lineCap decimal.Decimal, lineAllocated *decimal.Decimal, invoice *categoryState, f *txnFunds) {
	if f == nil {
		return
	}
	if lineAllocated.GreaterThanOrEqual(lineCap) || !invoice.open() {
		return
	}
	unallocated := f.unallocated()
	if unallocated.LessThanOrEqual(decimal.Zero) {
		return
	}

	increment := decimal.Min(lineCap.Sub(*lineAllocated), unallocated)
	details.Add(source, txnID, increment)
	*lineAllocated = lineAllocated.Add(increment)
	invoice.allocated = invoice.allocated.Add(increment)
	f.allocated = f.allocated.Add(increment)
}
