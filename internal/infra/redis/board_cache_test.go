package redis

import (
	"context"
	"testing"
	"time"

	"compboard/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBoardCacheCachesSnapshots(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewBoardCache(newClient(mr), loader, time.Minute)

	entries, err := cache.TaskBoard(context.Background(), 1)
	if err != nil {
		t.Fatalf("task board: %v", err)
	}
	if len(entries) != 1 || entries[0].TeamName != "alpha" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if loader.taskCalls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.taskCalls)
	}

	// Second call should hit Redis, loader not incremented.
	if _, err := cache.TaskBoard(context.Background(), 1); err != nil {
		t.Fatalf("task board: %v", err)
	}
	if loader.taskCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.taskCalls)
	}
}

func TestBoardCacheKeysPerTask(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewBoardCache(newClient(mr), loader, time.Minute)

	if _, err := cache.TaskBoard(context.Background(), 1); err != nil {
		t.Fatalf("task board 1: %v", err)
	}
	if _, err := cache.TaskBoard(context.Background(), 2); err != nil {
		t.Fatalf("task board 2: %v", err)
	}
	if loader.taskCalls != 2 {
		t.Fatalf("expected separate cache keys per task, got %d loads", loader.taskCalls)
	}
}

func TestBoardCacheInvalidateDropsAllBoards(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewBoardCache(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	if _, err := cache.TaskBoard(ctx, 1); err != nil {
		t.Fatalf("task board: %v", err)
	}
	if _, err := cache.CombinedBoard(ctx); err != nil {
		t.Fatalf("combined board: %v", err)
	}

	cache.Invalidate(ctx)

	if _, err := cache.TaskBoard(ctx, 1); err != nil {
		t.Fatalf("task board: %v", err)
	}
	if _, err := cache.CombinedBoard(ctx); err != nil {
		t.Fatalf("combined board: %v", err)
	}
	if loader.taskCalls != 2 || loader.combinedCalls != 2 {
		t.Fatalf("expected reloads after invalidation, got task=%d combined=%d", loader.taskCalls, loader.combinedCalls)
	}
}

func TestBoardCacheExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{}
	cache := NewBoardCache(newClient(mr), loader, 10*time.Second)
	ctx := context.Background()

	if _, err := cache.TaskBoard(ctx, 1); err != nil {
		t.Fatalf("task board: %v", err)
	}

	// Jitter adds at most 10%, so 12s is past any possible TTL.
	mr.FastForward(12 * time.Second)

	if _, err := cache.TaskBoard(ctx, 1); err != nil {
		t.Fatalf("task board: %v", err)
	}
	if loader.taskCalls != 2 {
		t.Fatalf("expected reload after expiry, got %d", loader.taskCalls)
	}
}

type countingLoader struct {
	taskCalls     int
	combinedCalls int
}

func (l *countingLoader) TaskBoard(_ context.Context, taskID int) ([]domain.LeaderboardEntry, error) {
	l.taskCalls++
	return []domain.LeaderboardEntry{{TeamName: "alpha", Score: 0.9, Rank: 1}}, nil
}

func (l *countingLoader) CombinedBoard(_ context.Context) ([]domain.CombinedLeaderboardEntry, error) {
	l.combinedCalls++
	return []domain.CombinedLeaderboardEntry{{TeamName: "alpha", CombinedScore: 0.54, Rank: 1}}, nil
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
