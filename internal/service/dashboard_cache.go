package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cashFlowKeyPrefix = "dashboard:cashflow:"

// CacheInvalidator drops cached views derived from transaction data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type cashFlowCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewCashFlowInvalidator returns an invalidator for the dashboard cash-flow cache.
// A nil client yields a no-op invalidator.
func NewCashFlowInvalidator(client *redis.Client, logger zerolog.Logger) CacheInvalidator {
	return &cashFlowCache{
		client: client,
		logger: logger.With().Str("component", "dashboard_cache").Logger(),
	}
}

// Invalidate removes every cached overview. Failures are logged; the entries still expire by TTL.
func (c *cashFlowCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, cashFlowKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to scan dashboard cache")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Int("keys", len(keys)).Msg("failed to invalidate dashboard cache")
	}
}
