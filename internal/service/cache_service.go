package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const statsKeyPrefix = "billfold:stats:"

// CacheService keeps computed stats in Redis so repeated dashboard loads do
// not refetch every invoice.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// GetStats returns the cached stats for a user, or nil on a miss.
func (c *CacheService) GetStats(ctx context.Context, userID string) (*models.InvoiceStats, error) {
	val, err := c.client.Get(ctx, statsKeyPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached stats: %w", err)
	}

	var stats models.InvoiceStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}

	return &stats, nil
}

func (c *CacheService) SetStats(ctx context.Context, userID string, stats *models.InvoiceStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := c.client.Set(ctx, statsKeyPrefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}

	return nil
}

func (c *CacheService) InvalidateStats(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, statsKeyPrefix+userID).Err(); err != nil {
		c.logger.Warnf("Failed to invalidate stats cache for %s: %v", userID, err)
	}
}
