package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// ValidInvoiceStatus reports whether s is one of the known statuses.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

type LineItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
	Amount      float64 `bson:"amount" json:"amount"`
}

type Invoice struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Number      string             `bson:"number" json:"number"`
	ClientName  string             `bson:"client_name" json:"client_name"`
	ClientEmail string             `bson:"client_email" json:"client_email"`
	Items       []LineItem         `bson:"items" json:"items"`
	Status      InvoiceStatus      `bson:"status" json:"status"`
	Subtotal    float64            `bson:"subtotal" json:"subtotal"`
	TaxRate     float64            `bson:"tax_rate" json:"tax_rate"`
	Total       float64            `bson:"total" json:"total"`
	IssueDate   time.Time          `bson:"issue_date" json:"-"`
	DueDate     time.Time          `bson:"due_date" json:"-"`
	PaidAt      *time.Time         `bson:"paid_at,omitempty" json:"-"`
	Notes       string             `bson:"notes" json:"notes"`
	TemplateID  string             `bson:"template_id,omitempty" json:"template_id,omitempty"`
	PDFFileID   string             `bson:"pdf_file_id,omitempty" json:"pdf_file_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Recalculate recomputes line item amounts, the subtotal and the total
// from quantities, unit prices and the tax rate.
func (i *Invoice) Recalculate() {
	subtotal := 0.0
	for idx := range i.Items {
		item := &i.Items[idx]
		item.Amount = float64(item.Quantity) * item.UnitPrice
		subtotal += item.Amount
	}
	i.Subtotal = subtotal
	i.Total = subtotal * (1 + i.TaxRate/100)
}
