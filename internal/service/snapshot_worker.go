package service

import (
	"context"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/sirupsen/logrus"
)

// SnapshotWorker periodically captures per-user stats so the forecaster has
// history to fit.
type SnapshotWorker struct {
	invoices  InvoiceStore
	snapshots SnapshotStore
	users     UserSource
	interval  time.Duration
	retention time.Duration
	logger    *logrus.Logger
}

func NewSnapshotWorker(invoices InvoiceStore, snapshots SnapshotStore, users UserSource, interval time.Duration, logger *logrus.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		invoices:  invoices,
		snapshots: snapshots,
		users:     users,
		interval:  interval,
		retention: 180 * 24 * time.Hour,
		logger:    logger,
	}
}

func (w *SnapshotWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.CaptureAll(ctx); err != nil {
		w.logger.Errorf("Initial snapshot capture failed: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := w.CaptureAll(ctx); err != nil {
				w.logger.Errorf("Snapshot capture failed: %v", err)
			}
		case <-ctx.Done():
			w.logger.Info("Stopping snapshot worker")
			return
		}
	}
}

// CaptureAll computes and stores a snapshot for every user, then prunes
// snapshots past retention. A failure for one user does not stop the rest.
func (w *SnapshotWorker) CaptureAll(ctx context.Context) error {
	users, err := w.users.FindAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, user := range users {
		invoices, err := w.invoices.FindByUser(ctx, user.ID.Hex(), "", 0)
		if err != nil {
			w.logger.Errorf("Failed to load invoices for %s: %v", user.ID.Hex(), err)
			continue
		}

		stats := ComputeStats(invoices, now)
		snapshot := &models.StatsSnapshot{
			UserID:     user.ID.Hex(),
			Stats:      stats,
			CapturedAt: now,
		}

		if err := w.snapshots.Save(ctx, snapshot); err != nil {
			w.logger.Errorf("Failed to save snapshot for %s: %v", user.ID.Hex(), err)
		}
	}

	if err := w.snapshots.DeleteOlderThan(ctx, now.Add(-w.retention)); err != nil {
		w.logger.Warnf("Failed to prune old snapshots: %v", err)
	}

	return nil
}
