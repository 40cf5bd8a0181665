package models

import (
	"time"

	"parkingsoft/internal/domain"
)

// Payment is an audit row; voided payments are kept, never deleted.
// At most one non-voided payment exists per parking record.
type Payment struct {
	ID            int64                `json:"id"`
	RecordID      int64                `json:"parkingRecordId"`
	Amount        float64              `json:"amount"`
	Method        domain.PaymentMethod `json:"paymentMethod"`
	PaymentDate   time.Time            `json:"paymentDate"`
	TransactionID *string              `json:"transactionId"`
	ReceiptNumber string               `json:"receiptNumber"`
	ProcessedBy   int64                `json:"processedBy"`
	Notes         string               `json:"notes,omitempty"`
	VoidStatus    bool                 `json:"voidStatus"`
	VoidDate      *time.Time           `json:"voidDate,omitempty"`
	VoidReason    *string              `json:"voidReason,omitempty"`
	VoidBy        *int64               `json:"voidBy,omitempty"`
}

// Status renders the audit state the way receipts display it.
func (p Payment) Status() string {
	if p.VoidStatus {
		return "voided"
	}
	return "active"
}
