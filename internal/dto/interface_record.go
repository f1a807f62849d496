package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
)

// InterfaceRecordResponse defines the data returned for one posted oracle
// interface row.
type InterfaceRecordResponse struct {
	RecordID     string          `json:"recordID"`
	ReceiptDate  time.Time       `json:"receiptDate"`
	ActivityName string          `json:"activityName"`
	Amount       decimal.Decimal `json:"amount"`
	CustomerName string          `json:"customerName"`
	Description  string          `json:"description"`
	Comments     string          `json:"comments"`
	Status       string          `json:"status"`
	StatusDate   time.Time       `json:"statusDate"`
}

// ToInterfaceRecordResponses converts a slice of domain.InterfaceRecord to
// []InterfaceRecordResponse.
func ToInterfaceRecordResponses(records []domain.InterfaceRecord) []InterfaceRecordResponse {
	responses := make([]InterfaceRecordResponse, len(records))
	for i, rec := range records {
		responses[i] = InterfaceRecordResponse{
			RecordID:     rec.RecordID,
			ReceiptDate:  rec.ReceiptDate,
			ActivityName: rec.ActivityName,
			Amount:       rec.Amount,
			CustomerName: rec.CustomerName,
			Description:  rec.Description,
			Comments:     rec.Comments,
			Status:       rec.Status,
			StatusDate:   rec.StatusDate,
		}
	}
	return responses
}
