package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quotescout/quotescout/internal/config"
	"github.com/quotescout/quotescout/internal/domain"
)

// Cache is the opaque key-value store backing transient session state: quote
// sessions, the most recently built catalog, and rate-limit counters.
type Cache struct {
	client *redis.Client
}

// Key prefixes for different cache types
const (
	PrefixQuoteSession = "quote_session:"
	PrefixRateLimit    = "ratelimit:"
	KeyCatalog         = "catalog:current"
)

// Default TTLs
const (
	QuoteSessionTTL = 30 * time.Minute
	CatalogTTL      = 24 * time.Hour
	RateLimitWindow = 1 * time.Minute
)

// New creates a new Redis cache client
func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Quote sessions

// SetQuoteSession stores a quote session under its TTL
func (c *Cache) SetQuoteSession(ctx context.Context, session *domain.QuoteSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PrefixQuoteSession+session.ID, data, QuoteSessionTTL).Err()
}

// GetQuoteSession retrieves a quote session; nil when absent or expired
func (c *Cache) GetQuoteSession(ctx context.Context, id string) (*domain.QuoteSession, error) {
	data, err := c.client.Get(ctx, PrefixQuoteSession+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var session domain.QuoteSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteQuoteSession removes a quote session
func (c *Cache) DeleteQuoteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, PrefixQuoteSession+id).Err()
}

// Catalog

// SetCatalog stores the most recently built catalog, replacing any previous
// one wholesale
func (c *Cache) SetCatalog(ctx context.Context, catalog *domain.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyCatalog, data, CatalogTTL).Err()
}

// GetCatalog retrieves the stored catalog; nil when none has been built
func (c *Cache) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	data, err := c.client.Get(ctx, KeyCatalog).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Rate limiting

// CheckRateLimit checks and increments a rate-limit counter
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error) {
	fullKey := PrefixRateLimit + key

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, RateLimitWindow)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}
