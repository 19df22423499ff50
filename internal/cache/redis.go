// Package cache fronts the orchestrator with a redis result cache keyed by a
// stable fingerprint of (product content, config). The core pipeline never
// depends on it; a nil cache simply means every call recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

const defaultTTL = 10 * time.Minute

type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Fingerprint hashes product content together with the config. Map keys are
// sorted by the JSON encoder, so equal inputs always hash equally.
func Fingerprint(p domain.Product, cfg domain.EnrichmentConfig) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(p)
	_ = enc.Encode(cfg)
	return hex.EncodeToString(h.Sum(nil))
}

func buildKey(fingerprint string) string {
	return "enrich:result:" + fingerprint
}

func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*domain.EnrichmentResult, bool, error) {
	val, err := c.client.Get(ctx, buildKey(fingerprint)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var result domain.EnrichmentResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return &result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, fingerprint string, result *domain.EnrichmentResult) error {
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.client.Set(ctx, buildKey(fingerprint), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping connectivity
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
