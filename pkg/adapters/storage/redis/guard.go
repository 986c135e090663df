package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix is prepended to every guard key
const KeyPrefix = "dailyquote:sent:"

// Guard implements RunGuard using Redis
type Guard struct {
	client redis.UniversalClient
	logger *zap.Logger
	ttl    time.Duration
}

// NewGuard creates a new Redis run guard. Held keys expire after ttl.
func NewGuard(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Acquire takes key if nobody holds it (ports.RunGuard interface)
func (g *Guard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, getGuardKey(key), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run guard: %w", err)
	}

	g.logger.Debug("run guard checked",
		zap.String("key", key),
		zap.Bool("acquired", ok))

	return ok, nil
}

// Release drops key so a later run may retry (ports.RunGuard interface)
func (g *Guard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, getGuardKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release run guard: %w", err)
	}
	return nil
}

// Helper functions

func getGuardKey(key string) string {
	return KeyPrefix + key
}
