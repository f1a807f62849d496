package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	"github.com/ParksWS/payments_recon_app/internal/utils/accounting"
)

// AllocationSetResponse mirrors a line's allocation ledger: per source, the
// amount assigned from each transaction.
type AllocationSetResponse map[string]map[string]decimal.Decimal

// LineResponse defines the data returned for one order line.
type LineResponse struct {
	LineID           int64                 `json:"lineID"`
	Description      string                `json:"description"`
	PriceInclTax     decimal.Decimal       `json:"priceInclTax"`
	PriceExclTax     decimal.Decimal       `json:"priceExclTax"`
	OracleCode       string                `json:"oracleCode"`
	PaymentDetails   AllocationSetResponse `json:"paymentDetails"`
	RefundDetails    AllocationSetResponse `json:"refundDetails"`
	DeductionDetails AllocationSetResponse `json:"deductionDetails"`
}

// InvoiceResponse defines the combined response for an invoice and its lines.
type InvoiceResponse struct {
	Reference       string          `json:"reference"`
	SystemID        string          `json:"systemID"`
	OrderNumber     string          `json:"orderNumber,omitempty"`
	PaymentAmount   decimal.Decimal `json:"paymentAmount"`
	RefundAmount    decimal.Decimal `json:"refundAmount"`
	DeductionAmount decimal.Decimal `json:"deductionAmount"`
	Lines           []LineResponse  `json:"lines"`
}

func toAllocationSetResponse(set domain.AllocationSet) AllocationSetResponse {
	resp := AllocationSetResponse{}
	for source, bucket := range set {
		entries := make(map[string]decimal.Decimal, len(bucket))
		for txnID, amount := range bucket {
			entries[txnID] = amount
		}
		resp[string(source)] = entries
	}
	return resp
}

// ToLineResponse converts a domain.Line to a LineResponse DTO, deriving the
// tax-exclusive price from the configured GST rate.
func ToLineResponse(line *domain.Line, gstRate decimal.Decimal) LineResponse {
	return LineResponse{
		LineID:           line.LineID,
		Description:      line.Description,
		PriceInclTax:     line.PriceInclTax,
		PriceExclTax:     accounting.ExclTaxAmount(line.PriceInclTax, gstRate),
		OracleCode:       line.OracleCode,
		PaymentDetails:   toAllocationSetResponse(line.PaymentDetails),
		RefundDetails:    toAllocationSetResponse(line.RefundDetails),
		DeductionDetails: toAllocationSetResponse(line.DeductionDetails),
	}
}

// ToInvoiceResponse converts an invoice and its lines to an InvoiceResponse DTO.
func ToInvoiceResponse(invoice *domain.Invoice, lines []domain.Line, gstRate decimal.Decimal) InvoiceResponse {
	lineResponses := make([]LineResponse, len(lines))
	for i := range lines {
		lineResponses[i] = ToLineResponse(&lines[i], gstRate)
	}
	return InvoiceResponse{
		Reference:       invoice.Reference,
		SystemID:        invoice.SystemID,
		OrderNumber:     invoice.OrderNumber,
		PaymentAmount:   invoice.PaymentAmount,
		RefundAmount:    invoice.RefundAmount,
		DeductionAmount: invoice.DeductionAmount,
		Lines:           lineResponses,
	}
}
