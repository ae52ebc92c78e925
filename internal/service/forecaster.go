package service

import (
	"context"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Forecaster projects revenue from the snapshot history with an ordinary
// least squares fit.
type Forecaster struct {
	snapshots SnapshotStore
	window    time.Duration
	horizon   time.Duration
	logger    *logrus.Logger
}

func NewForecaster(snapshots SnapshotStore, logger *logrus.Logger) *Forecaster {
	return &Forecaster{
		snapshots: snapshots,
		window:    90 * 24 * time.Hour,
		horizon:   30 * 24 * time.Hour,
		logger:    logger,
	}
}

// Forecast fits revenue over the snapshot window and extrapolates one
// horizon ahead. At least two snapshots are required.
func (f *Forecaster) Forecast(ctx context.Context, userID string) (*models.RevenueForecast, error) {
	end := time.Now()
	snapshots, err := f.snapshots.FindRange(ctx, userID, end.Add(-f.window), end)
	if err != nil {
		return nil, err
	}
	if len(snapshots) < 2 {
		return nil, ErrNotEnoughPoints
	}

	xs := make([]float64, len(snapshots))
	ys := make([]float64, len(snapshots))
	origin := snapshots[0].CapturedAt
	for i, snap := range snapshots {
		xs[i] = snap.CapturedAt.Sub(origin).Hours() / 24
		ys[i] = snap.Stats.TotalRevenue
	}

	projected, growth := projectRevenue(xs, ys, f.horizon.Hours()/24)

	return &models.RevenueForecast{
		UserID:           userID,
		ProjectedRevenue: projected,
		DailyGrowth:      growth,
		SampleSize:       len(snapshots),
		GeneratedAt:      end,
	}, nil
}

// projectRevenue fits ys over xs (days) and evaluates the line horizonDays
// past the last observation. Revenue never projects below zero.
func projectRevenue(xs, ys []float64, horizonDays float64) (projected, growth float64) {
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	last := xs[len(xs)-1]
	projected = alpha + beta*(last+horizonDays)
	if projected < 0 {
		projected = 0
	}

	return projected, beta
}
