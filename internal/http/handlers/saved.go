package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/middleware"
	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/repo"
	"github.com/propertybazaar/server/internal/validate"
	"github.com/propertybazaar/server/internal/wishlist"
)

// SavedHandler mirrors a signed-in user's wishlist
type SavedHandler struct {
	saved  repo.SavedListRepo
	logger *zap.Logger
	now    func() time.Time
}

// NewSavedHandler creates a new saved-list handler
func NewSavedHandler(saved repo.SavedListRepo, logger *zap.Logger) *SavedHandler {
	return &SavedHandler{saved: saved, logger: logger, now: time.Now}
}

// putSavedRequest is the request body for PUT /api/saved.
// A zero UpdatedAt is stamped with the server time.
type putSavedRequest struct {
	PropertyIDs []int64   `json:"property_ids" validate:"dive,gt=0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type savedResponse struct {
	Success     bool      `json:"success"`
	PropertyIDs []int64   `json:"property_ids"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HandleGet handles GET /api/saved
func (h *SavedHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	current, err := h.load(r, id.Contact)
	if err != nil {
		h.logger.Error("failed to load saved list", logging.Contact(id.Contact), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, toSavedResponse(current))
}

// HandlePut handles PUT /api/saved. The later updated_at wins; the winning list is returned.
func (h *SavedHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req putSavedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = h.now()
	}
	incoming := wishlist.Snapshot{IDs: uniqueIDs(req.PropertyIDs), UpdatedAt: req.UpdatedAt.UTC()}

	current, err := h.load(r, id.Contact)
	if err != nil {
		h.logger.Error("failed to load saved list", logging.Contact(id.Contact), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	winner := wishlist.Merge(current, incoming)
	if winner.UpdatedAt.After(current.UpdatedAt) {
		stored, err := h.saved.PutIfNewer(r.Context(), model.SavedList{
			Contact:     id.Contact,
			PropertyIDs: winner.IDs,
			UpdatedAt:   winner.UpdatedAt,
		})
		if err != nil {
			h.logger.Error("failed to store saved list", logging.Contact(id.Contact), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		// a concurrent writer may have won in the database
		winner = wishlist.Snapshot{IDs: stored.PropertyIDs, UpdatedAt: stored.UpdatedAt}
	}
	respondWithJSON(w, h.logger, http.StatusOK, toSavedResponse(winner))
}

// load returns the stored snapshot, or an empty one when nothing is stored yet
func (h *SavedHandler) load(r *http.Request, contact string) (wishlist.Snapshot, error) {
	list, err := h.saved.Get(r.Context(), contact)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return wishlist.Snapshot{IDs: []int64{}}, nil
		}
		return wishlist.Snapshot{}, err
	}
	return wishlist.Snapshot{IDs: list.PropertyIDs, UpdatedAt: list.UpdatedAt}, nil
}

func toSavedResponse(s wishlist.Snapshot) savedResponse {
	ids := s.IDs
	if ids == nil {
		ids = []int64{}
	}
	return savedResponse{Success: true, PropertyIDs: ids, UpdatedAt: s.UpdatedAt}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
