// Package cache provides an optional Redis read-through cache for the
// recent-context query. The relational store stays the source of truth; a
// cache miss simply falls back to it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seeya29/SmartBrief/internal/summary/domain"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when the requested context is not cached.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL bounds how long cached context survives without writes.
const DefaultTTL = 24 * time.Hour

// ContextCache keeps the most recent summary records per user/platform pair
// in Redis: one key per record plus a sorted set scored by generated_at.
type ContextCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContextCache pings Redis and returns a cache with the given TTL
// (DefaultTTL when zero).
func NewContextCache(client *redis.Client, ttl time.Duration) (*ContextCache, error) {
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ContextCache{client: client, ttl: ttl}, nil
}

// SaveRecord writes a record through to the cache. Re-saving the same
// summary_id replaces the stored payload and rescores the recency index, so
// the cache mirrors the store's replace-on-write semantics.
func (c *ContextCache) SaveRecord(ctx context.Context, record *domain.SummaryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.recordKey(record.SummaryID), data, c.ttl)
	idxKey := c.contextKey(record.UserID, record.Platform)
	pipe.ZAdd(ctx, idxKey, &redis.Z{
		Score:  float64(record.GeneratedAt.UnixMicro()),
		Member: record.SummaryID,
	})
	pipe.Expire(ctx, idxKey, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentRecords returns up to limit cached records for the pair, newest
// first, or ErrCacheMiss when the index is empty or entries have expired.
func (c *ContextCache) RecentRecords(ctx context.Context, userID, platform string, limit int) ([]*domain.SummaryRecord, error) {
	idxKey := c.contextKey(userID, platform)
	ids, err := c.client.ZRevRange(ctx, idxKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrCacheMiss
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.recordKey(id)
	}
	results, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.SummaryRecord, 0, len(results))
	for _, result := range results {
		if result == nil {
			// Record key expired ahead of the index; force a store read
			// rather than serving a partial window.
			return nil, ErrCacheMiss
		}
		var record domain.SummaryRecord
		if err := json.Unmarshal([]byte(result.(string)), &record); err != nil {
			return nil, ErrCacheMiss
		}
		records = append(records, &record)
	}
	return records, nil
}

func (c *ContextCache) recordKey(summaryID string) string {
	return fmt.Sprintf("summary:%s", summaryID)
}

func (c *ContextCache) contextKey(userID, platform string) string {
	return fmt.Sprintf("user_context:%s:%s", userID, platform)
}

// Close releases the underlying Redis connection.
func (c *ContextCache) Close() error {
	return c.client.Close()
}
