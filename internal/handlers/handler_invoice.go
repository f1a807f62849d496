package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/dto"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
)

// invoiceHandler handles HTTP requests for invoices and their allocations.
type invoiceHandler struct {
	allocationService portssvc.AllocationSvcFacade
	invoiceRepo       portsrepo.InvoiceReader
	gstRate           decimal.Decimal
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(allocationService portssvc.AllocationSvcFacade, invoiceRepo portsrepo.InvoiceReader, gstRate decimal.Decimal) *invoiceHandler {
	return &invoiceHandler{
		allocationService: allocationService,
		invoiceRepo:       invoiceRepo,
		gstRate:           gstRate,
	}
}

// updateAllocations runs the allocation engine for the invoice and returns
// the updated lines.
func (h *invoiceHandler) updateAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("reference")

	lines, err := h.allocationService.UpdatePayments(c.Request.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAllocationOverflow):
			logger.Warn("Allocation overflow detected", slog.String("reference", reference), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update allocations", slog.String("reference", reference), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update allocations"})
		}
		return
	}

	responses := make([]dto.LineResponse, len(lines))
	for i := range lines {
		responses[i] = dto.ToLineResponse(&lines[i], h.gstRate)
	}
	c.JSON(http.StatusOK, gin.H{"reference": reference, "lines": responses})
}

// getInvoice returns the invoice with its lines and allocation ledgers.
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("reference")

	invoice, lines, err := h.invoiceRepo.FindInvoiceWithLines(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to load invoice", slog.String("reference", reference), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoice"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, lines, h.gstRate))
}
