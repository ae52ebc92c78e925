package messaging

import "time"

const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventAgreementSigned      = "agreement.signed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	RecordID   string    `json:"record_id"`
	Status     string    `json:"status,omitempty"`
	Total      float64   `json:"total,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
