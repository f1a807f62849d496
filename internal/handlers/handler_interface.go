package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/ParksWS/payments_recon_app/internal/dto"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
)

// interfaceHandler handles HTTP requests for posted oracle interface rows.
type interfaceHandler struct {
	recordReader portsrepo.InterfaceRecordReader
}

// newInterfaceHandler creates a new interfaceHandler.
func newInterfaceHandler(recordReader portsrepo.InterfaceRecordReader) *interfaceHandler {
	return &interfaceHandler{recordReader: recordReader}
}

// listRecords returns the interface rows posted for a receipt date.
func (h *interfaceHandler) listRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter must be formatted YYYY-MM-DD"})
		return
	}

	records, err := h.recordReader.ListInterfaceRecordsByDate(c.Request.Context(), date)
	if err != nil {
		logger.Error("Failed to list interface records", slog.String("date", dateStr), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list interface records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": dateStr, "records": dto.ToInterfaceRecordResponses(records)})
}
