package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/handler/dto"
	"github.com/accountd/accountd/internal/repository"
)

// UserHandler serves the authenticated user's own record.
// The auth middleware must run before these handlers.
type UserHandler struct {
	store  UserStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:  store,
		logger: logger,
	}
}

// Me handles GET /api/user.
// Returns the full record for the identity on the request context. The
// subject may have been deleted since the token was issued, hence 404.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("user lookup failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Update handles PUT /api/update-user-data.
// Applies a partial merge-update and returns the updated record.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	upd := req.ToUserUpdate()
	if upd.Empty() {
		writeError(w, http.StatusBadRequest, "EMPTY_BODY", "No fields to update")
		return
	}

	user, err := h.store.UpdateUser(r.Context(), userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, repository.ErrEmailExists):
			writeError(w, http.StatusConflict, "DUPLICATE_EMAIL", "Email is already registered")
		default:
			h.logger.Error("user update failed", "error", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
