package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recentViewsMax = 12
	recentViewsTTL = 30 * 24 * time.Hour
)

// RecentViews keeps each user's last viewed artwork slugs in a capped list.
// Key format: recent_views:<user_id>
type RecentViews struct {
	client *redis.Client
}

// NewRecentViews creates a RecentViews store wrapping the given Redis client.
func NewRecentViews(client *redis.Client) *RecentViews {
	return &RecentViews{client: client}
}

// Push moves slug to the head of the list, dropping older duplicates and
// anything past the cap.
func (v *RecentViews) Push(ctx context.Context, userID, slug string) error {
	key := recentViewsKey(userID)
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, slug)
		pipe.LPush(ctx, key, slug)
		pipe.LTrim(ctx, key, 0, recentViewsMax-1)
		pipe.Expire(ctx, key, recentViewsTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recent views push: %w", err)
	}
	return nil
}

// List returns up to limit slugs, newest first.
func (v *RecentViews) List(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 || limit > recentViewsMax {
		limit = recentViewsMax
	}
	slugs, err := v.client.LRange(ctx, recentViewsKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("recent views list: %w", err)
	}
	return slugs, nil
}

func recentViewsKey(userID string) string {
	return "recent_views:" + userID
}
