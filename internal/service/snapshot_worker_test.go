package service

import (
	"context"
	"testing"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCaptureAll(t *testing.T) {
	invoices := new(MockInvoiceStore)
	snapshots := new(MockSnapshotStore)
	users := new(MockUserStore)
	worker := NewSnapshotWorker(invoices, snapshots, users, time.Hour, quietLogger())

	ctx := context.Background()
	alice := models.User{ID: primitive.NewObjectID()}
	bob := models.User{ID: primitive.NewObjectID()}

	users.On("FindAll", ctx).Return([]models.User{alice, bob}, nil)
	invoices.On("FindByUser", ctx, alice.ID.Hex(), models.InvoiceStatus(""), int64(0)).
		Return([]models.Invoice{{Status: models.InvoiceStatusPaid, Total: 300}}, nil)
	invoices.On("FindByUser", ctx, bob.ID.Hex(), models.InvoiceStatus(""), int64(0)).
		Return([]models.Invoice{}, nil)
	snapshots.On("Save", ctx, mock.MatchedBy(func(s *models.StatsSnapshot) bool {
		return s.UserID == alice.ID.Hex() && s.Stats.TotalRevenue == 300
	})).Return(nil)
	snapshots.On("Save", ctx, mock.MatchedBy(func(s *models.StatsSnapshot) bool {
		return s.UserID == bob.ID.Hex() && s.Stats.TotalInvoices == 0
	})).Return(nil)
	snapshots.On("DeleteOlderThan", ctx, mock.Anything).Return(nil)

	err := worker.CaptureAll(ctx)
	require.NoError(t, err)

	snapshots.AssertExpectations(t)
}

func TestCaptureAllSkipsFailedUser(t *testing.T) {
	invoices := new(MockInvoiceStore)
	snapshots := new(MockSnapshotStore)
	users := new(MockUserStore)
	worker := NewSnapshotWorker(invoices, snapshots, users, time.Hour, quietLogger())

	ctx := context.Background()
	broken := models.User{ID: primitive.NewObjectID()}
	healthy := models.User{ID: primitive.NewObjectID()}

	users.On("FindAll", ctx).Return([]models.User{broken, healthy}, nil)
	invoices.On("FindByUser", ctx, broken.ID.Hex(), models.InvoiceStatus(""), int64(0)).
		Return(nil, assert.AnError)
	invoices.On("FindByUser", ctx, healthy.ID.Hex(), models.InvoiceStatus(""), int64(0)).
		Return([]models.Invoice{}, nil)
	snapshots.On("Save", ctx, mock.MatchedBy(func(s *models.StatsSnapshot) bool {
		return s.UserID == healthy.ID.Hex()
	})).Return(nil)
	snapshots.On("DeleteOlderThan", ctx, mock.Anything).Return(nil)

	err := worker.CaptureAll(ctx)
	require.NoError(t, err)

	snapshots.AssertNumberOfCalls(t, "Save", 1)
}

func TestCaptureAllPropagatesUserListFailure(t *testing.T) {
	invoices := new(MockInvoiceStore)
	snapshots := new(MockSnapshotStore)
	users := new(MockUserStore)
	worker := NewSnapshotWorker(invoices, snapshots, users, time.Hour, quietLogger())

	ctx := context.Background()
	users.On("FindAll", ctx).Return(nil, assert.AnError)

	err := worker.CaptureAll(ctx)
	assert.Error(t, err)
	snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
