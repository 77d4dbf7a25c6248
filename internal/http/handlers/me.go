package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/middleware"
	"github.com/propertybazaar/server/internal/model"
)

// UserLookup finds the stored user behind a verified contact
type UserLookup interface {
	GetByContact(ctx context.Context, contact string, channel model.Channel) (model.User, error)
}

// MeHandler returns the identity carried by the session token,
// enriched with the stored user record when one exists
type MeHandler struct {
	users  UserLookup
	logger *zap.Logger
}

// NewMeHandler creates a new me handler; users may be nil
func NewMeHandler(users UserLookup, logger *zap.Logger) *MeHandler {
	return &MeHandler{users: users, logger: logger}
}

type meResponse struct {
	Success     bool           `json:"success"`
	User        model.Identity `json:"user"`
	Registered  bool           `json:"registered"`
	MemberSince *time.Time     `json:"member_since,omitempty"`
}

// HandleMe handles GET /api/me (protected)
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp := meResponse{Success: true, User: id}
	if h.users != nil {
		user, err := h.users.GetByContact(r.Context(), id.Contact, id.Type)
		switch {
		case err == nil:
			resp.Registered = true
			resp.MemberSince = &user.CreatedAt
			if id.Username == "" {
				resp.User.Username = user.Username
			}
		case errors.Is(err, model.ErrNotFound):
		default:
			// the token alone still identifies the caller
			h.logger.Warn("failed to look up user", logging.Contact(id.Contact), zap.Error(err))
		}
	}
	respondWithJSON(w, h.logger, http.StatusOK, resp)
}
