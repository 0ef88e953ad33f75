package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sparkmeet/match-engine/internal/cache"
)

// RedisDispatcher publishes events to per-user pub/sub channels. The
// delivery workers subscribe to these channels and own retries and
// transport from there.
type RedisDispatcher struct {
	cache *cache.RedisCache
}

func NewRedisDispatcher(c *cache.RedisCache) *RedisDispatcher {
	return &RedisDispatcher{cache: c}
}

// ChannelFor returns the pub/sub channel for a user's notifications.
func ChannelFor(userID uint64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := d.cache.Publish(ctx, ChannelFor(event.UserID), payload); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
	}
	return nil
}
