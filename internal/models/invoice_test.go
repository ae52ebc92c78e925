package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name             string
		items            []LineItem
		taxRate          float64
		expectedSubtotal float64
		expectedTotal    float64
	}{
		{
			name:             "no items",
			items:            nil,
			taxRate:          20,
			expectedSubtotal: 0,
			expectedTotal:    0,
		},
		{
			name: "single item no tax",
			items: []LineItem{
				{Quantity: 3, UnitPrice: 50},
			},
			expectedSubtotal: 150,
			expectedTotal:    150,
		},
		{
			name: "multiple items with tax",
			items: []LineItem{
				{Quantity: 2, UnitPrice: 100},
				{Quantity: 1, UnitPrice: 50},
			},
			taxRate:          10,
			expectedSubtotal: 250,
			expectedTotal:    275,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := Invoice{Items: tt.items, TaxRate: tt.taxRate}
			invoice.Recalculate()

			assert.Equal(t, tt.expectedSubtotal, invoice.Subtotal)
			assert.InDelta(t, tt.expectedTotal, invoice.Total, 1e-9)
			for _, item := range invoice.Items {
				assert.Equal(t, float64(item.Quantity)*item.UnitPrice, item.Amount)
			}
		})
	}
}

func TestRecalculateOverwritesStaleAmounts(t *testing.T) {
	invoice := Invoice{
		Items: []LineItem{
			{Quantity: 2, UnitPrice: 10, Amount: 999},
		},
	}
	invoice.Recalculate()

	assert.Equal(t, 20.0, invoice.Items[0].Amount)
	assert.Equal(t, 20.0, invoice.Subtotal)
}

func TestValidInvoiceStatus(t *testing.T) {
	for _, status := range []InvoiceStatus{
		InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled,
	} {
		assert.True(t, ValidInvoiceStatus(status), string(status))
	}

	assert.False(t, ValidInvoiceStatus(""))
	assert.False(t, ValidInvoiceStatus("archived"))
	assert.False(t, ValidInvoiceStatus("PAID"))
}

func TestUnixHelpers(t *testing.T) {
	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, ts, FromUnix(ts.Unix()))
	assert.Equal(t, ts.Unix(), UnixOrZero(&ts))
	assert.EqualValues(t, 0, UnixOrZero(nil))
}
