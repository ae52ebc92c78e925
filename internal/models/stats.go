package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceStats summarizes a user's invoices. Paid and unpaid counts always
// add up to the total; overdue is a subset of unpaid.
type InvoiceStats struct {
	TotalInvoices     int     `bson:"total_invoices" json:"total_invoices"`
	PaidInvoices      int     `bson:"paid_invoices" json:"paid_invoices"`
	UnpaidInvoices    int     `bson:"unpaid_invoices" json:"unpaid_invoices"`
	OverdueInvoices   int     `bson:"overdue_invoices" json:"overdue_invoices"`
	TotalRevenue      float64 `bson:"total_revenue" json:"total_revenue"`
	OutstandingAmount float64 `bson:"outstanding_amount" json:"outstanding_amount"`
}

// StatsSnapshot is a point-in-time capture of a user's stats, persisted by
// the snapshot worker for trend history.
type StatsSnapshot struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Stats      InvoiceStats       `bson:"stats" json:"stats"`
	CapturedAt time.Time          `bson:"captured_at" json:"captured_at"`
}

type RevenueForecast struct {
	UserID           string    `json:"user_id"`
	ProjectedRevenue float64   `json:"projected_revenue"`
	DailyGrowth      float64   `json:"daily_growth"`
	SampleSize       int       `json:"sample_size"`
	GeneratedAt      time.Time `json:"generated_at"`
}
