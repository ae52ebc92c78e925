package service

import (
	"time"

	"github.com/billfold/billfold/internal/models"
)

// ComputeStats folds a list of invoices into summary counters. The fold is
// commutative, so input order never changes the result, and the function is
// pure: the reference time comes in as asOf rather than from the clock.
//
// A paid invoice is never counted overdue, even when it was settled after
// its due date. Every non-paid invoice (cancelled included) contributes to
// the unpaid count and the outstanding amount.
func ComputeStats(invoices []models.Invoice, asOf time.Time) models.InvoiceStats {
	stats := models.InvoiceStats{
		TotalInvoices: len(invoices),
	}

	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			stats.PaidInvoices++
			stats.TotalRevenue += inv.Total
			continue
		}

		stats.UnpaidInvoices++
		stats.OutstandingAmount += inv.Total
		if inv.DueDate.Before(asOf) {
			stats.OverdueInvoices++
		}
	}

	return stats
}
