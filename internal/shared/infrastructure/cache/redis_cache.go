// Package cache provides a Redis-backed, namespaced cache for
// short-lived scheduling artifacts: the occupations pulled from the
// calendar during a sync, and the last generated schedule for a day, so
// a repeated CLI invocation in the same minute doesn't re-hit CalDAV.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key has no cached value.
var ErrNotFound = errors.New("cache: key not found")

const keyMaxLength = 256

// ErrKeyTooLong is returned when a key exceeds keyMaxLength.
var ErrKeyTooLong = errors.New("cache: key too long")

// Cache stores opaque byte values under a per-user namespace.
type Cache struct {
	client *redis.Client
	userID uuid.UUID
}

// New wraps client with a namespace scoped to userID.
func New(client *redis.Client, userID uuid.UUID) *Cache {
	return &Cache{client: client, userID: userID}
}

func (c *Cache) namespaced(key string) string {
	return fmt.Sprintf("life-os:user:%s:%s", c.userID, key)
}

// Get returns the cached bytes for key, or ErrNotFound if absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores value under key with ttl. A zero ttl stores without
// expiration.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if len(key) > keyMaxLength {
		return ErrKeyTooLong
	}
	return c.client.Set(ctx, c.namespaced(key), value, ttl).Err()
}

// Delete removes key, if present.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.namespaced(key)).Err()
}

// OccupationsKey is the cache key for a day's pulled calendar
// occupations, keyed by the ISO date so each day's pull is independent.
func OccupationsKey(date time.Time) string {
	return "occupations:" + date.Format("2006-01-02")
}

// ScheduleKey is the cache key for the last schedule generated for a
// day.
func ScheduleKey(date time.Time) string {
	return "schedule:" + date.Format("2006-01-02")
}

// ResultKey is the cache key for a generated schedule result, keyed by
// a hash of its inputs (now, occupations, items, config) so that two
// calls with unchanged inputs — the common case when the worker re-runs
// generate_schedule on a timer — hit the same entry.
func ResultKey(inputHash string) string {
	return "result:" + inputHash
}
