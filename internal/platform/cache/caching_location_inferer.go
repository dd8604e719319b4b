// Package cache provides caching implementations for adapter interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sign_backend/internal/feature/signanalysis/usecase"
)

// CachingLocationInferer decorates a LocationInferer with Redis caching.
// The same sign text resolves to the same description, so repeated uploads of
// one sign skip the paid inference call while the entry lives.
type CachingLocationInferer struct {
	inner     usecase.LocationInferer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.LocationInferer = (*CachingLocationInferer)(nil)

// NewCachingLocationInferer decorates a LocationInferer with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "location".
func NewCachingLocationInferer(rdb *redis.Client, ttl time.Duration, inner usecase.LocationInferer, namespace string) *CachingLocationInferer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if namespace == "" {
		namespace = "location"
	}
	return &CachingLocationInferer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// InferLocation returns a cached description when present, otherwise calls the
// inner inferer and stores successful results. Errors are never cached.
func (c *CachingLocationInferer) InferLocation(ctx context.Context, text string) (string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.InferLocation(ctx, text)
	}

	key := c.cacheKey(text)

	// 1) Check cache
	if v, err := c.rdb.Get(ctx, key).Result(); err == nil && v != "" {
		return v, nil
	} else if err != nil && err != redis.Nil {
		slog.Warn("location cache read failed", "error", err, "key", key)
	}

	// 2) Fallback to the inference service
	out, err := c.inner.InferLocation(ctx, text)
	if err != nil {
		return "", err
	}

	// 3) Store in cache (best effort)
	if err := c.rdb.Set(ctx, key, out, c.ttl).Err(); err != nil {
		slog.Warn("location cache write failed", "error", err, "key", key)
	}
	return out, nil
}

// cacheKey hashes the text exactly as sent to the inferer so arbitrary OCR output is a safe key.
func (c *CachingLocationInferer) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}
