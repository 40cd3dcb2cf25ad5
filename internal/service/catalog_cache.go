package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogKeyPrefix  = "catalogo:"
	catalogVersionKey = catalogKeyPrefix + "version"
)

// CatalogCache stores serialized product listings in Redis. A nil cache, or
// one without a client, is a permanent miss.
//
// Listing keys carry a generation number (catalogo:g<N>:<key>). Invalidate
// bumps the generation, so a listing read from the database before an
// invalidation is written under a generation nobody reads anymore.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) enabled() bool { return c != nil && c.rdb != nil }

func listingKey(gen int64, key string) string {
	return fmt.Sprintf("%sg%d:%s", catalogKeyPrefix, gen, key)
}

// generation returns the current generation, or -1 when it cannot be read
// (callers must then skip the write).
func (c *CatalogCache) generation(ctx context.Context) int64 {
	gen, err := c.rdb.Get(ctx, catalogVersionKey).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache: version read failed")
		return -1
	}
	return gen
}

// get decodes the cached value of key into dst and reports a hit. On a miss
// it returns the generation that a later set must use.
func (c *CatalogCache) get(ctx context.Context, key string, dst any) (bool, int64) {
	if !c.enabled() {
		return false, -1
	}
	gen := c.generation(ctx)
	if gen < 0 {
		return false, gen
	}
	raw, err := c.rdb.Get(ctx, listingKey(gen, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache: get failed")
		}
		return false, gen
	}
	return json.Unmarshal(raw, dst) == nil, gen
}

// set stores v under the generation observed by the preceding get.
func (c *CatalogCache) set(ctx context.Context, gen int64, key string, v any) {
	if !c.enabled() || gen < 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listingKey(gen, key), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache: set failed")
	}
}

// Invalidate retires every cached listing. Called after any stock or catalog
// change.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	gen, err := c.rdb.Incr(ctx, catalogVersionKey).Result()
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache: invalidate failed")
		return
	}

	// older generations are unreachable now; drop them instead of waiting for the TTL
	iter := c.rdb.Scan(ctx, 0, catalogKeyPrefix+"g*", 100).Iterator()
	var viejas []string
	actual := listingKey(gen, "")
	for iter.Next(ctx) {
		if k := iter.Val(); !strings.HasPrefix(k, actual) {
			viejas = append(viejas, k)
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache: scan failed")
		return
	}
	if len(viejas) > 0 {
		if err := c.rdb.Del(ctx, viejas...).Err(); err != nil {
			log.Warn().Err(err).Msg("catalog cache: cleanup failed")
		}
	}
}
