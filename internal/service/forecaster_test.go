package service

import (
	"context"
	"testing"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func snapshotAt(capturedAt time.Time, revenue float64) models.StatsSnapshot {
	return models.StatsSnapshot{
		UserID:     "user-1",
		Stats:      models.InvoiceStats{TotalRevenue: revenue},
		CapturedAt: capturedAt,
	}
}

func TestForecastLinearGrowth(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	forecaster := NewForecaster(snapshots, quietLogger())

	// Revenue grows by exactly 10 per day over five days.
	origin := time.Now().Add(-5 * 24 * time.Hour)
	history := []models.StatsSnapshot{
		snapshotAt(origin, 100),
		snapshotAt(origin.Add(24*time.Hour), 110),
		snapshotAt(origin.Add(48*time.Hour), 120),
		snapshotAt(origin.Add(72*time.Hour), 130),
		snapshotAt(origin.Add(96*time.Hour), 140),
	}
	snapshots.On("FindRange", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(history, nil)

	forecast, err := forecaster.Forecast(context.Background(), "user-1")
	require.NoError(t, err)

	assert.InDelta(t, 10.0, forecast.DailyGrowth, 1e-9)
	assert.InDelta(t, 440.0, forecast.ProjectedRevenue, 1e-6)
	assert.Equal(t, 5, forecast.SampleSize)
}

func TestForecastNotEnoughPoints(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	forecaster := NewForecaster(snapshots, quietLogger())

	snapshots.On("FindRange", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]models.StatsSnapshot{snapshotAt(time.Now(), 100)}, nil)

	_, err := forecaster.Forecast(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestProjectRevenue(t *testing.T) {
	tests := []struct {
		name              string
		xs                []float64
		ys                []float64
		horizonDays       float64
		expectedProjected float64
		expectedGrowth    float64
	}{
		{
			name:              "steady growth",
			xs:                []float64{0, 1, 2, 3},
			ys:                []float64{0, 5, 10, 15},
			horizonDays:       30,
			expectedProjected: 165,
			expectedGrowth:    5,
		},
		{
			name:              "flat revenue",
			xs:                []float64{0, 10, 20},
			ys:                []float64{500, 500, 500},
			horizonDays:       30,
			expectedProjected: 500,
			expectedGrowth:    0,
		},
		{
			name:              "decline clamps at zero",
			xs:                []float64{0, 1, 2},
			ys:                []float64{20, 10, 0},
			horizonDays:       30,
			expectedProjected: 0,
			expectedGrowth:    -10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projected, growth := projectRevenue(tt.xs, tt.ys, tt.horizonDays)
			assert.InDelta(t, tt.expectedProjected, projected, 1e-6)
			assert.InDelta(t, tt.expectedGrowth, growth, 1e-9)
		})
	}
}
