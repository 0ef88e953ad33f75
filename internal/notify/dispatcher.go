package notify

import (
	"context"

	"github.com/google/uuid"
)

// Kind identifies what a notification is about.
type Kind string

const (
	KindLikeSent      Kind = "like_sent"
	KindMatch         Kind = "match"
	KindDislikeAck    Kind = "dislike_ack"
	KindSettingsSaved Kind = "settings_saved"
)

// Event is one notification addressed to one user. Payload carries
// kind-specific data; for a match it is the counterpart's public
// profile.
type Event struct {
	EventID string `json:"event_id"`
	UserID  uint64 `json:"user_id"`
	Kind    Kind   `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// NewEvent builds an Event with a fresh id.
func NewEvent(userID uint64, kind Kind, payload any) Event {
	return Event{
		EventID: uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
	}
}

// Dispatcher hands notifications to the external delivery system.
// Delivery itself (push, websocket, email) is someone else's problem:
// an error here means the hand-off failed, and callers log it without
// failing the operation that triggered it.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}
