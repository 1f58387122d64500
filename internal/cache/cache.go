// Package cache provides a Redis-backed record cache for the registry's
// non-counting reads. Counting reads never consult it; the service
// invalidates entries after each counter increment instead.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nasirnaqash/web3-ls/internal/registry"
)

const connectTimeout = 5 * time.Second

// RecordCache caches full records keyed by namespace and short code. Every
// failure degrades to a cache miss; the registry must keep working with the
// cache down.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Config holds configuration for the cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Logger   *slog.Logger
}

// New connects to Redis and verifies the connection before returning.
func New(ctx context.Context, cfg Config) (*RecordCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Close releases the underlying connection pool.
func (c *RecordCache) Close() error {
	return c.client.Close()
}

func key(ns registry.Namespace, code string) string {
	return string(ns) + ":" + code
}

func (c *RecordCache) GetLink(ctx context.Context, code string) (registry.LinkRecord, bool) {
	var rec registry.LinkRecord
	if !c.get(ctx, key(registry.NamespaceLink, code), &rec) {
		return registry.LinkRecord{}, false
	}
	return rec, true
}

func (c *RecordCache) SetLink(ctx context.Context, rec registry.LinkRecord) {
	c.set(ctx, key(registry.NamespaceLink, rec.ShortCode), rec)
}

func (c *RecordCache) GetMedia(ctx context.Context, code string) (registry.MediaRecord, bool) {
	var rec registry.MediaRecord
	if !c.get(ctx, key(registry.NamespaceMedia, code), &rec) {
		return registry.MediaRecord{}, false
	}
	return rec, true
}

func (c *RecordCache) SetMedia(ctx context.Context, rec registry.MediaRecord) {
	c.set(ctx, key(registry.NamespaceMedia, rec.ShortCode), rec)
}

// Invalidate drops the cached record so the next peek reloads it from the
// store.
func (c *RecordCache) Invalidate(ctx context.Context, ns registry.Namespace, code string) {
	k := key(ns, code)
	if err := c.client.Del(ctx, k).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidate failed", "key", k, "error", err.Error())
	}
}

func (c *RecordCache) get(ctx context.Context, k string, dest any) bool {
	data, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", k, "error", err.Error())
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt", "key", k, "error", err.Error())
		return false
	}
	return true
}

func (c *RecordCache) set(ctx context.Context, k string, rec any) {
	data, err := json.Marshal(rec)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", k, "error", err.Error())
		return
	}

	if err := c.client.Set(ctx, k, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", k, "error", err.Error())
	}
}
