package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"compboard/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BoardLoader computes leaderboards from the backing store on cache miss.
type BoardLoader interface {
	TaskBoard(ctx context.Context, taskID int) ([]domain.LeaderboardEntry, error)
	CombinedBoard(ctx context.Context) ([]domain.CombinedLeaderboardEntry, error)
}

// BoardCache keeps rendered leaderboard snapshots in Redis as JSON blobs and
// falls back to the loader on miss. Concurrent misses for the same board are
// collapsed to a single recompute.
type BoardCache struct {
	client *redis.Client
	loader BoardLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBoardCache(client *redis.Client, loader BoardLoader, ttl time.Duration) *BoardCache {
	return &BoardCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *BoardCache) TaskBoard(ctx context.Context, taskID int) ([]domain.LeaderboardEntry, error) {
	key := taskKey(taskID)
	var entries []domain.LeaderboardEntry
	if c.getCached(ctx, key, &entries) {
		return entries, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		var entries []domain.LeaderboardEntry
		if c.getCached(ctx, key, &entries) {
			return entries, nil
		}
		entries, err := c.loader.TaskBoard(ctx, taskID)
		if err != nil {
			return nil, err
		}
		c.setCached(ctx, key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardEntry), nil
}

func (c *BoardCache) CombinedBoard(ctx context.Context) ([]domain.CombinedLeaderboardEntry, error) {
	key := combinedKey
	var entries []domain.CombinedLeaderboardEntry
	if c.getCached(ctx, key, &entries) {
		return entries, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		var entries []domain.CombinedLeaderboardEntry
		if c.getCached(ctx, key, &entries) {
			return entries, nil
		}
		entries, err := c.loader.CombinedBoard(ctx)
		if err != nil {
			return nil, err
		}
		c.setCached(ctx, key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CombinedLeaderboardEntry), nil
}

// Invalidate drops every cached board snapshot. Called after submissions,
// team deletions, settings flips and private recomputes.
func (c *BoardCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, taskKey(1), taskKey(2), combinedKey).Err()
}

const combinedKey = "board:combined"

func taskKey(taskID int) string {
	return fmt.Sprintf("board:task%d", taskID)
}

func (c *BoardCache) getCached(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *BoardCache) setCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
}

func (c *BoardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
