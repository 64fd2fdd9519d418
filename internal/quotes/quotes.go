// Package quotes caches latest prices in Redis and publishes alert events
// to a pub/sub channel so dashboards can consume them out-of-process.
// All methods are nil-receiver safe: without Redis the monitor runs
// unchanged, just without the cache.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"trade-monitorv1/internal/model"
)

const (
	latestKeyPrefix = "trademonitor:latest:"
	alertChannel    = "trademonitor:alerts"
	latestTTL       = 30 * time.Minute
)

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache writes latest quotes and publishes alerts to Redis.
type Cache struct {
	client *goredis.Client
}

// New connects to Redis and pings it.
func New(cfg Config) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("quote cache connected", "addr", cfg.Addr)
	return &Cache{client: client}, nil
}

// Client exposes the underlying client for health checks.
func (c *Cache) Client() *goredis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// SetLatest stores the latest price for a symbol with a TTL.
func (c *Cache) SetLatest(ctx context.Context, symbol string, price float64) {
	if c == nil {
		return
	}
	key := latestKeyPrefix + symbol
	if err := c.client.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), latestTTL).Err(); err != nil {
		slog.Warn("quote cache write failed", "symbol", symbol, "err", err)
	}
}

// GetLatest reads the cached price for a symbol. ok=false on miss.
func (c *Cache) GetLatest(ctx context.Context, symbol string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, latestKeyPrefix+symbol).Result()
	if err != nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// PublishAlert fans an alert event out on the alert channel.
func (c *Cache) PublishAlert(ctx context.Context, event model.AlertEvent) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := c.client.Publish(ctx, alertChannel, payload).Err(); err != nil {
		slog.Warn("alert publish failed", "trade_id", event.TradeID, "err", err)
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
