package geo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/metrics"
)

const cacheTTL = time.Hour

// redisKV is the slice of *redis.Client the cache uses; narrow so tests can
// fake it without a running Redis.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedResolver is a read-through cache in front of another Resolver.
// Cache failures degrade to direct resolution; they are logged, never
// surfaced. Null results are not cached, so a transient upstream hiccup is
// retried on the next lookup.
type CachedResolver struct {
	inner Resolver
	rdb   redisKV
	log   logging.Logger
}

func NewCachedResolver(inner Resolver, rdb redisKV, log logging.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, rdb: rdb, log: log}
}

func cacheKey(ip string) string { return "geo:" + ip }

func (c *CachedResolver) Resolve(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
	if data, err := c.rdb.Get(ctx, cacheKey(ip)).Bytes(); err == nil {
		snap := &models.GeoSnapshot{}
		if jsonErr := json.Unmarshal(data, snap); jsonErr == nil {
			metrics.GeoCacheTotal.WithLabelValues("hit").Inc()
			return snap, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn(ctx, "geo cache read failed", "ip", ip, "error", err.Error())
	}
	metrics.GeoCacheTotal.WithLabelValues("miss").Inc()

	snap, err := c.inner.Resolve(ctx, ip)
	if err != nil || snap == nil {
		return snap, err
	}

	data, err := json.Marshal(snap)
	if err == nil {
		if setErr := c.rdb.Set(ctx, cacheKey(ip), data, cacheTTL).Err(); setErr != nil {
			c.log.Warn(ctx, "geo cache write failed", "ip", ip, "error", setErr.Error())
		}
	}

	return snap, nil
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
