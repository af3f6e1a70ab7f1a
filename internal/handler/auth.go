package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/handler/dto"
	"github.com/accountd/accountd/internal/metrics"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/repository"
	"github.com/accountd/accountd/internal/token"
)

// Validation limits for registration.
const (
	MinNameLength     = 6
	MinPasswordLength = 8
)

// emailPattern is intentionally loose; real validation happens when the
// address is used.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// invalidCredentialsMsg is shared by the user-absent and wrong-password
// cases so a caller cannot tell which one occurred.
const invalidCredentialsMsg = "Invalid email or password"

// AuthHandler handles login and registration.
type AuthHandler struct {
	store   UserStore
	tokens  *token.Manager
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store UserStore, tokens *token.Manager, logger *slog.Logger, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{
		store:   store,
		tokens:  tokens,
		logger:  logger,
		metrics: recorder,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.metrics.IncLoginFailure()
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", invalidCredentialsMsg)
			return
		}
		h.internalError(w, r, "login lookup failed", err)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		h.metrics.IncLoginFailure()
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", invalidCredentialsMsg)
		return
	}

	tok, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(w, r, "token issuance failed", err)
		return
	}

	h.metrics.IncLoginSuccess()
	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		User:  dto.ToUserResponse(user),
		Token: tok,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if msg := validateRegistration(req); msg != "" {
		h.metrics.IncRegistrationRejected("validation")
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	// Pre-insert uniqueness lookup. The check and the insert below are not
	// atomic; the unique index in the schema catches the losing side of a
	// concurrent duplicate registration.
	_, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		h.metrics.IncRegistrationRejected("duplicate")
		writeError(w, http.StatusConflict, "DUPLICATE_EMAIL", "Email is already registered")
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		h.internalError(w, r, "registration lookup failed", err)
		return
	}

	// Hash only after the uniqueness check so a duplicate does not pay
	// for the work factor.
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, "password hashing failed", err)
		return
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.metrics.IncRegistrationRejected("duplicate")
			writeError(w, http.StatusConflict, "DUPLICATE_EMAIL", "Email is already registered")
			return
		}
		h.internalError(w, r, "user creation failed", err)
		return
	}

	tok, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(w, r, "token issuance failed", err)
		return
	}

	h.metrics.IncRegistration()
	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		User:    dto.ToUserResponse(user),
		Token:   tok,
	})
}

// validateRegistration returns a field-specific message, or "" when valid.
func validateRegistration(req dto.RegisterRequest) string {
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return "Email, name, and password are required"
	}
	if !emailPattern.MatchString(req.Email) {
		return "Please enter a valid email address"
	}
	if len(req.Name) < MinNameLength {
		return "Name must be at least 6 characters long"
	}
	if len(req.Password) < MinPasswordLength {
		return "Password must be at least 8 characters long"
	}
	return ""
}

// internalError logs the underlying failure and writes a generic 500.
// The original error never reaches the response body.
func (h *AuthHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
