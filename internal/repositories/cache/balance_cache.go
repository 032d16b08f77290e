package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "tl"
	balancePrefix = "balance"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisBalanceCache stores agent balances as JSON with a fixed TTL, which
// bounds how stale a cached balance can be.
type RedisBalanceCache struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// Ensure RedisBalanceCache implements portsrepo.BalanceCache
var _ portsrepo.BalanceCache = (*RedisBalanceCache)(nil)

// NewRedisBalanceCache connects to redisURL and verifies connectivity.
func NewRedisBalanceCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisBalanceCache, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("balance cache ttl must be positive, got %s", ttl)
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBalanceCache{store: raw, raw: raw, ttl: ttl}, nil
}

// BalanceKey returns the namespaced key of an agent's cached balance.
func BalanceKey(agentID string) string {
	return strings.Join([]string{keyNamespace, balancePrefix, agentID}, ":")
}

// GetBalance reports false without error on a miss.
func (c *RedisBalanceCache) GetBalance(ctx context.Context, agentID string) (*domain.AgentBalance, bool, error) {
	raw, err := c.store.Get(ctx, BalanceKey(agentID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var balance domain.AgentBalance
	if err := json.Unmarshal([]byte(raw), &balance); err != nil {
		// A payload we cannot read is a miss; it is overwritten on the next read.
		return nil, false, nil
	}
	return &balance, true, nil
}

func (c *RedisBalanceCache) SetBalance(ctx context.Context, balance domain.AgentBalance) error {
	payload, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}
	return c.store.Set(ctx, BalanceKey(balance.AgentID), payload, c.ttl).Err()
}

func (c *RedisBalanceCache) InvalidateBalance(ctx context.Context, agentID string) error {
	return c.store.Del(ctx, BalanceKey(agentID)).Err()
}

// Ping checks connectivity for health checks.
func (c *RedisBalanceCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *RedisBalanceCache) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
