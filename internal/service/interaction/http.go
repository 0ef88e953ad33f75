package interaction

import (
	"encoding/json"
	"net/http"

	"github.com/sparkmeet/match-engine/internal/db"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/server"
)

// PutInteractionRequest is the validated upstream contract for one
// user action.
type PutInteractionRequest struct {
	ActorID  uint64 `json:"actor_id"`
	TargetID uint64 `json:"target_id"`
	Action   string `json:"action"`
}

// MatchBody is the wire shape of a match record.
type MatchBody struct {
	MatchID   uint64 `json:"match_id"`
	User1ID   uint64 `json:"user1_id"`
	User2ID   uint64 `json:"user2_id"`
	CreatedAt int64  `json:"created_at_unix"`
}

// PutInteractionResponse reports how the action resolved.
type PutInteractionResponse struct {
	Outcome string     `json:"outcome"`
	Match   *MatchBody `json:"match,omitempty"`
}

// PutInteraction handles PUT /v1/interactions.
func (s *Service) PutInteraction(w http.ResponseWriter, r *http.Request) {
	var req PutInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}

	s.appCtx.Logger.Debug("PutInteraction called",
		"actor", req.ActorID, "target", req.TargetID, "action", req.Action)

	result, err := s.Handle(r.Context(), req.ActorID, req.TargetID, db.Action(req.Action))
	if err != nil {
		s.appCtx.Logger.Error("Handle failed",
			"actor", req.ActorID, "target", req.TargetID, "err", err)
		server.WriteError(w, err)
		return
	}

	resp := PutInteractionResponse{Outcome: string(result.Outcome)}
	if result.Match != nil {
		resp.Match = &MatchBody{
			MatchID:   result.Match.ID,
			User1ID:   result.Match.User1ID,
			User2ID:   result.Match.User2ID,
			CreatedAt: result.Match.CreatedAt.UnixMilli(),
		}
	}
	server.WriteJSON(w, http.StatusOK, resp)
}
