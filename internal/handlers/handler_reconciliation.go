package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ParksWS/payments_recon_app/internal/apperrors"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/dto"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
)

// reconciliationHandler handles HTTP requests that trigger reconciliation runs.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	runReader             portsrepo.ParserRunReader
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade, runReader portsrepo.ParserRunReader) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
		runReader:             runReader,
	}
}

// runParser triggers a reconciliation run for the requested date and system
// and returns the per-code totals the run posted.
func (h *reconciliationHandler) runParser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RunParserRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for RunParser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	totals, err := h.reconciliationService.RunParser(c.Request.Context(), req.Date, req.SystemID, req.SystemName)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrPeriodClosed),
			errors.Is(err, apperrors.ErrInvalidAccountCode),
			errors.Is(err, apperrors.ErrConfiguration):
			logger.Warn("Reconciliation precondition failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Reconciliation run failed in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		}
		return
	}

	logger.Info("Reconciliation run triggered successfully",
		slog.String("date", req.Date),
		slog.String("system_id", req.SystemID),
	)
	c.JSON(http.StatusOK, dto.ToRunParserResponse(req, totals))
}

// getRun returns the parser run recorded for a processing date, if any.
func (h *reconciliationHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be formatted YYYY-MM-DD"})
		return
	}

	run, err := h.runReader.FindRunByDate(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to load parser run", slog.String("date", dateStr), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load parser run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runID": run.RunID, "dateParsed": run.DateParsed.Format("2006-01-02")})
}
