// Package respcache is an optional Redis-backed cache for synthesized
// responses, keyed by a hash of the normalized query. Cache trouble never
// fails a request; callers fall back to recomputing the answer.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/metrics"
)

// DefaultTTL is the cache entry lifetime when none is configured.
const DefaultTTL = 15 * time.Minute

const keyPrefix = "houstonintel:resp:"

// Cache stores synthesized responses in Redis.
type Cache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis and creates the cache.
func New(addrs []string, password string, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  addrs,
		Password:     password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect response cache: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: log}, nil
}

// Get returns the cached response for a query. domain.ErrCacheMiss on
// absence, domain.ErrCacheUnavailable on transport trouble.
func (c *Cache) Get(ctx context.Context, queryText string) (answer.Response, error) {
	cmd := c.client.B().Get().Key(cacheKey(queryText)).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
			return answer.Response{}, domain.ErrCacheMiss
		}
		metrics.ResponseCacheTotal.WithLabelValues("error").Inc()
		return answer.Response{}, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	var resp answer.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		// A corrupt entry behaves like a miss.
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
		return answer.Response{}, domain.ErrCacheMiss
	}
	metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
	return resp, nil
}

// Set stores a response under the query's key with the configured TTL.
func (c *Cache) Set(ctx context.Context, queryText string, resp answer.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode cached response: %w", err)
	}
	cmd := c.client.B().Set().Key(cacheKey(queryText)).Value(string(data)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Ping checks cache availability.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() {
	c.client.Close()
}

// cacheKey hashes the normalized query so arbitrary text stays a safe,
// bounded Redis key.
func cacheKey(queryText string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(queryText)), " ")
	sum := sha256.Sum256([]byte(norm))
	return keyPrefix + hex.EncodeToString(sum[:])
}
