package interaction

import (
	"context"

	"github.com/sparkmeet/match-engine/internal/app"
	"github.com/sparkmeet/match-engine/internal/db"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/notify"
	"github.com/sparkmeet/match-engine/internal/repository"
)

// Outcome is the caller-visible result of handling one action.
type Outcome string

const (
	OutcomeRecorded Outcome = "recorded"
	OutcomeMatched  Outcome = "matched"
)

// Result is what Handle returns. Match is set only when the outcome
// is OutcomeMatched.
type Result struct {
	Outcome Outcome
	Match   *db.Match
}

// matchPayload is the notification body each side of a new match
// receives: the other person's public profile.
type matchPayload struct {
	MatchID     uint64             `json:"match_id"`
	Counterpart repository.Profile `json:"counterpart"`
}

// ackPayload is the notification body for recorded-but-not-matched
// actions.
type ackPayload struct {
	TargetID uint64 `json:"target_id"`
}

// Service orchestrates one user action end-to-end: validate, record
// in the interaction ledger, check for a mutual like, materialize the
// match, notify both sides.
type Service struct {
	appCtx       *app.AppContext
	interactions *repository.InteractionRepository
	matches      *repository.MatchRepository
	users        *repository.UserRepository
}

// NewService creates the interaction service with dependencies from
// AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		interactions: repository.NewInteractionRepository(appCtx.DB),
		matches:      repository.NewMatchRepository(appCtx.DB),
		users:        repository.NewUserRepository(appCtx.DB),
	}
}

// Handle records one action and walks the match state machine.
//
// Steps:
//  1. Validate action and self-targeting. Failures produce no writes.
//  2. Upsert the ledger row. A storage failure here is the single
//     fatal path: nothing else is attempted.
//  3. Dislike → done, OutcomeRecorded.
//  4. Like → check whether the target already likes the actor. If
//     not, done, OutcomeRecorded.
//  5. Mutual like → TryCreate the match. The unique pair constraint
//     arbitrates concurrent duplicates.
//  6. Only the winning creation dispatches the two match
//     notifications; a replay returns OutcomeMatched without
//     re-notifying.
//
// Notification failures are logged and never fail Handle: by the time
// we notify, the data-layer outcome is already committed.
func (s *Service) Handle(ctx context.Context, actorID, targetID uint64, action db.Action) (Result, error) {
	if !action.Valid() {
		return Result{}, svcErr.Validation(`action must be "like" or "dislike"`)
	}
	if actorID == 0 || targetID == 0 {
		return Result{}, svcErr.Validation("actor_id and target_id must be positive")
	}
	if actorID == targetID {
		return Result{}, svcErr.Validation("cannot act on yourself")
	}

	if _, err := s.interactions.Upsert(ctx, actorID, targetID, action); err != nil {
		return Result{}, svcErr.Persistence(err)
	}

	// keep the target's liker counter warm (best effort)
	key := s.appCtx.RedisCache.KeyForLikeCount(targetID)
	if action == db.ActionLike {
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	} else {
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
	}
	_ = s.appCtx.RedisCache.TouchLikeCount(ctx, targetID)

	if action == db.ActionDislike {
		s.dispatch(ctx, notify.NewEvent(actorID, notify.KindDislikeAck, ackPayload{TargetID: targetID}))
		return Result{Outcome: OutcomeRecorded}, nil
	}

	liked, err := s.interactions.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return Result{}, svcErr.Persistence(err)
	}
	if !liked {
		s.dispatch(ctx, notify.NewEvent(actorID, notify.KindLikeSent, ackPayload{TargetID: targetID}))
		return Result{Outcome: OutcomeRecorded}, nil
	}

	match, created, err := s.matches.TryCreate(ctx, actorID, targetID)
	if err != nil {
		return Result{}, svcErr.Persistence(err)
	}

	if created {
		s.notifyMatch(ctx, match, actorID, targetID)
	} else {
		s.appCtx.Logger.Debug("match already existed, notifications suppressed",
			"actor", actorID, "target", targetID, "match_id", match.ID)
	}

	return Result{Outcome: OutcomeMatched, Match: &match}, nil
}

// notifyMatch sends one match notification to each participant, each
// carrying the counterpart's public profile.
func (s *Service) notifyMatch(ctx context.Context, match db.Match, actorID, targetID uint64) {
	actorProfile, err := s.users.GetProfile(ctx, actorID)
	if err != nil {
		s.appCtx.Logger.Error("failed to load actor profile for match notification",
			"user", actorID, "err", err)
		return
	}
	targetProfile, err := s.users.GetProfile(ctx, targetID)
	if err != nil {
		s.appCtx.Logger.Error("failed to load target profile for match notification",
			"user", targetID, "err", err)
		return
	}

	s.dispatch(ctx, notify.NewEvent(actorID, notify.KindMatch, matchPayload{
		MatchID:     match.ID,
		Counterpart: targetProfile,
	}))
	s.dispatch(ctx, notify.NewEvent(targetID, notify.KindMatch, matchPayload{
		MatchID:     match.ID,
		Counterpart: actorProfile,
	}))
}

// dispatch hands an event to the dispatcher, logging failures instead
// of propagating them.
func (s *Service) dispatch(ctx context.Context, event notify.Event) {
	if err := s.appCtx.Dispatcher.Dispatch(ctx, event); err != nil {
		s.appCtx.Logger.Error("notification dispatch failed",
			"event_id", event.EventID, "user", event.UserID, "kind", event.Kind, "err", err)
	}
}
