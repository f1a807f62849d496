package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

// RunParserRequest triggers a reconciliation run for one date and system.
type RunParserRequest struct {
	Date       string `json:"date" binding:"required,recondate"`
	SystemID   string `json:"systemID" binding:"required"`
	SystemName string `json:"systemName" binding:"required"`
}

// RunParserResponse reports the per-code totals a run produced.
type RunParserResponse struct {
	Date       string                     `json:"date"`
	SystemID   string                     `json:"systemID"`
	SystemName string                     `json:"systemName"`
	CodeTotals map[string]decimal.Decimal `json:"codeTotals"`
}

// ToRunParserResponse converts run results to a RunParserResponse DTO.
func ToRunParserResponse(req RunParserRequest, totals domain.CodeTotals) RunParserResponse {
	return RunParserResponse{
		Date:       req.Date,
		SystemID:   req.SystemID,
		SystemName: req.SystemName,
		CodeTotals: totals,
	}
}
