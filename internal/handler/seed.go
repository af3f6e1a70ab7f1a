package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/repository"
)

// Fixed fixture created by the seed endpoint. The ID matches the identity
// fabricated for the development bypass token so the two can be used
// together.
const (
	seedUserID    = "test-user-id"
	seedUserEmail = "test@example.com"
	seedUserName  = "Test User"
	seedPassword  = "qwerty123!"
)

// SeedHandler creates development fixtures. Only mounted in development.
type SeedHandler struct {
	store  UserStore
	logger *slog.Logger
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(store UserStore, logger *slog.Logger) *SeedHandler {
	return &SeedHandler{
		store:  store,
		logger: logger,
	}
}

// CreateTestUser handles POST /api/seed/create-test-user.
// Idempotent: a second call reports the existing fixture.
func (h *SeedHandler) CreateTestUser(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.GetUserByID(r.Context(), seedUserID)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Test user already exists",
			"userId":  seedUserID,
		})
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		h.logger.Error("seed lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		h.logger.Error("seed password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           seedUserID,
		Email:        seedUserEmail,
		Name:         seedUserName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		h.logger.Error("seed creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("test_user_seeded", "user_id", seedUserID)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Test user created successfully",
		"userId":  seedUserID,
	})
}
