package geo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/models"
)

// fakeKV is an in-memory redisKV.
type fakeKV struct {
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

// countingResolver wraps a canned result and counts calls.
type countingResolver struct {
	snap  *models.GeoSnapshot
	err   error
	calls int
}

func (c *countingResolver) Resolve(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
	c.calls++
	return c.snap, c.err
}

func testLogger() logging.Logger {
	return logging.New(io.Discard, "error")
}

func TestCachedResolver_MissThenHit(t *testing.T) {
	kv := newFakeKV()
	inner := &countingResolver{snap: models.NewGeoSnapshot("8.8.8.8")}
	c := NewCachedResolver(inner, kv, testLogger())
	ctx := context.Background()

	snap, err := c.Resolve(ctx, "8.8.8.8")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, kv.sets)

	snap2, err := c.Resolve(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, snap.IP, snap2.IP)
	assert.Equal(t, 1, inner.calls, "second lookup must be served from cache")
}

func TestCachedResolver_NullResultsNotCached(t *testing.T) {
	kv := newFakeKV()
	inner := &countingResolver{snap: nil}
	c := NewCachedResolver(inner, kv, testLogger())

	snap, err := c.Resolve(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Zero(t, kv.sets)

	_, _ = c.Resolve(context.Background(), "10.0.0.1")
	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_CacheFailureDegradesToDirect(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("redis down")
	kv.setErr = errors.New("redis down")
	inner := &countingResolver{snap: models.NewGeoSnapshot("8.8.8.8")}
	c := NewCachedResolver(inner, kv, testLogger())

	snap, err := c.Resolve(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedResolver_CorruptCacheEntryFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.data[cacheKey("8.8.8.8")] = "{not json"
	inner := &countingResolver{snap: models.NewGeoSnapshot("8.8.8.8")}
	c := NewCachedResolver(inner, kv, testLogger())

	snap, err := c.Resolve(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, inner.calls)

	// The fresh result overwrote the corrupt entry.
	var stored models.GeoSnapshot
	require.NoError(t, json.Unmarshal([]byte(kv.data[cacheKey("8.8.8.8")]), &stored))
	assert.Equal(t, "8.8.8.8", stored.IP)
}

func TestCachedResolver_UpstreamErrorPropagates(t *testing.T) {
	kv := newFakeKV()
	inner := &countingResolver{err: errors.New("upstream down")}
	c := NewCachedResolver(inner, kv, testLogger())

	_, err := c.Resolve(context.Background(), "8.8.8.8")
	assert.Error(t, err)
	assert.Zero(t, kv.sets)
}
