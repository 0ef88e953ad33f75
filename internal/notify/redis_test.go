package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmeet/match-engine/internal/cache"
	"github.com/sparkmeet/match-engine/internal/config"
	"github.com/sparkmeet/match-engine/internal/notify"
)

// TestRedisDispatcherPublishes subscribes to a user's channel and
// expects the dispatched event back as JSON.
func TestRedisDispatcherPublishes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := redisCache.Client.Subscribe(ctx, notify.ChannelFor(42))
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx) // wait for the subscription to be live
	require.NoError(t, err)

	dispatcher := notify.NewRedisDispatcher(redisCache)
	sent := notify.NewEvent(42, notify.KindMatch, map[string]any{"match_id": 7})
	require.NoError(t, dispatcher.Dispatch(ctx, sent))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got notify.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, sent.EventID, got.EventID)
	assert.Equal(t, uint64(42), got.UserID)
	assert.Equal(t, notify.KindMatch, got.Kind)
}
