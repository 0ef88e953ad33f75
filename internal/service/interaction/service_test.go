package interaction_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sparkmeet/match-engine/internal/app"
	"github.com/sparkmeet/match-engine/internal/cache"
	"github.com/sparkmeet/match-engine/internal/config"
	"github.com/sparkmeet/match-engine/internal/db"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/notify"
	"github.com/sparkmeet/match-engine/internal/service/interaction"
)

//
// Test helpers
//

// recordingDispatcher captures dispatched events instead of
// delivering them. fail makes every Dispatch return an error.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
	fail   bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event notify.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errors.New("dispatcher unavailable")
	}
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) byKind(kind notify.Kind) []notify.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.Event
	for _, e := range d.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// setupAppCtx spins up an in-memory SQLite DB, applies migrations,
// seeds a few users, starts a miniredis, and wires everything into an
// AppContext with a recording dispatcher.
//
// Each test gets its own isolated DB + Redis.
func setupAppCtx(t *testing.T) (*app.AppContext, *recordingDispatcher, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.Interaction{}, &db.Match{}, &db.UserSetting{}))

	users := []db.User{
		{ID: 10, Username: "amira", Email: "amira@test.com", PasswordHash: "x", Gender: "female", Age: 27, City: "London"},
		{ID: 20, Username: "bilal", Email: "bilal@test.com", PasswordHash: "x", Gender: "male", Age: 29, City: "Leeds"},
		{ID: 30, Username: "chloe", Email: "chloe@test.com", PasswordHash: "x", Gender: "female", Age: 24},
	}
	require.NoError(t, dbase.Create(&users).Error)

	// Fake Redis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	dispatcher := &recordingDispatcher{}
	appCtx := app.New(dbase, redisCache, logger, dispatcher)
	return appCtx, dispatcher, dbase
}

func setupService(t *testing.T) (*interaction.Service, *recordingDispatcher, *gorm.DB) {
	t.Helper()
	appCtx, dispatcher, dbase := setupAppCtx(t)
	return interaction.NewService(appCtx), dispatcher, dbase
}

func countRows(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}

//
// Tests
//

// TestMutualLikeScenario walks the core flow: 10 likes 20 (recorded),
// then 20 likes 10 (matched), one normalized match row, one match
// notification to each side with the counterpart's profile.
func TestMutualLikeScenario(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)

	res, err := svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeRecorded, res.Outcome)
	assert.Nil(t, res.Match)

	res, err = svc.Handle(ctx, 20, 10, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeMatched, res.Outcome)
	require.NotNil(t, res.Match)
	assert.Equal(t, uint64(10), res.Match.User1ID)
	assert.Equal(t, uint64(20), res.Match.User2ID)

	assert.Equal(t, int64(1), countRows(t, gdb, "matches"))

	matchEvents := dispatcher.byKind(notify.KindMatch)
	require.Len(t, matchEvents, 2)
	recipients := map[uint64]bool{}
	for _, e := range matchEvents {
		recipients[e.UserID] = true
		require.NotEmpty(t, e.EventID)
	}
	assert.True(t, recipients[10])
	assert.True(t, recipients[20])
}

// TestReplayAfterMatchSuppressesNotifications replays a like once the
// match exists: still MATCHED, but no third notification.
func TestReplayAfterMatchSuppressesNotifications(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)

	_, err := svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)
	_, err = svc.Handle(ctx, 20, 10, db.ActionLike)
	require.NoError(t, err)
	require.Len(t, dispatcher.byKind(notify.KindMatch), 2)

	res, err := svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeMatched, res.Outcome)

	assert.Len(t, dispatcher.byKind(notify.KindMatch), 2)
	assert.Equal(t, int64(1), countRows(t, gdb, "matches"))
}

// TestDislikeShortCircuits verifies a dislike never triggers the
// mutual check, even when the other side already liked the actor.
func TestDislikeShortCircuits(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)

	_, err := svc.Handle(ctx, 20, 10, db.ActionLike)
	require.NoError(t, err)

	res, err := svc.Handle(ctx, 10, 20, db.ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeRecorded, res.Outcome)

	assert.Equal(t, int64(0), countRows(t, gdb, "matches"))
	assert.Len(t, dispatcher.byKind(notify.KindMatch), 0)
	assert.Len(t, dispatcher.byKind(notify.KindDislikeAck), 1)

	// changing the mind back completes the match
	res, err = svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeMatched, res.Outcome)
	assert.Equal(t, int64(1), countRows(t, gdb, "matches"))
}

// TestLikeThenDislikeLeavesOneRow checks the overwrite guarantee on
// the ledger.
func TestLikeThenDislikeLeavesOneRow(t *testing.T) {
	ctx := context.Background()
	svc, _, gdb := setupService(t)

	_, err := svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)
	_, err = svc.Handle(ctx, 10, 20, db.ActionDislike)
	require.NoError(t, err)

	var rows []db.Interaction
	require.NoError(t, gdb.Where("from_user_id = ? AND to_user_id = ?", 10, 20).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, db.ActionDislike, rows[0].Action)
}

// TestSelfTargetRejected expects a validation failure and zero writes.
func TestSelfTargetRejected(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)

	_, err := svc.Handle(ctx, 10, 10, db.ActionLike)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindValidation, svcErr.KindOf(err))

	assert.Equal(t, int64(0), countRows(t, gdb, "interactions"))
	assert.Equal(t, int64(0), countRows(t, gdb, "matches"))
	assert.Empty(t, dispatcher.events)
}

// TestInvalidActionRejected expects unsupported action values to fail
// before any side effect.
func TestInvalidActionRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, gdb := setupService(t)

	_, err := svc.Handle(ctx, 10, 20, db.Action("superlike"))
	require.Error(t, err)
	assert.Equal(t, svcErr.KindValidation, svcErr.KindOf(err))
	assert.Equal(t, int64(0), countRows(t, gdb, "interactions"))
}

// TestNotificationFailureDoesNotFailHandle makes the dispatcher
// error on every call; the match still commits and Handle still
// reports MATCHED.
func TestNotificationFailureDoesNotFailHandle(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)
	dispatcher.fail = true

	_, err := svc.Handle(ctx, 10, 20, db.ActionLike)
	require.NoError(t, err)

	res, err := svc.Handle(ctx, 20, 10, db.ActionLike)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeMatched, res.Outcome)
	assert.Equal(t, int64(1), countRows(t, gdb, "matches"))
}

// TestConcurrentMutualLikes races both directions of the same pair.
// Both handlers may observe the mutual like, but only one match row
// and one notification pair may come out.
func TestConcurrentMutualLikes(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher, gdb := setupService(t)

	var wg sync.WaitGroup
	pairs := [][2]uint64{{10, 20}, {20, 10}}
	for _, p := range pairs {
		wg.Add(1)
		go func(actor, target uint64) {
			defer wg.Done()
			_, err := svc.Handle(ctx, actor, target, db.ActionLike)
			assert.NoError(t, err)
		}(p[0], p[1])
	}
	wg.Wait()

	assert.Equal(t, int64(1), countRows(t, gdb, "matches"))

	// exactly one notification pair: at least one racer commits its
	// like second and so observes the reverse like, and only the
	// created=true winner notifies
	matchEvents := dispatcher.byKind(notify.KindMatch)
	require.Len(t, matchEvents, 2)
	recipients := map[uint64]bool{}
	for _, e := range matchEvents {
		recipients[e.UserID] = true
	}
	assert.True(t, recipients[10])
	assert.True(t, recipients[20])
}
