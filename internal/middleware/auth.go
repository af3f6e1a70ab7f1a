package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/metrics"
	"github.com/accountd/accountd/internal/model"
)

// BypassToken is the fixed sentinel accepted only in development mode.
// It substitutes a fabricated identity so frontend work does not need a
// real login round-trip. Must never be honored in production builds.
const BypassToken = "TEST_TOKEN"

// bypassIdentity is the fabricated identity attached for BypassToken.
var bypassIdentity = model.Identity{
	UserID: "test-user-id",
	Email:  "test@example.com",
}

// TokenVerifier checks a bearer token and returns the embedded identity.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// IdentityCache caches verified identities keyed by token digest.
// A nil cache is valid; every request then hits the verifier.
type IdentityCache interface {
	GetIdentity(ctx context.Context, tokenDigest string) (*model.Identity, error)
	SetIdentity(ctx context.Context, tokenDigest string, id *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger    *slog.Logger
	Tokens    TokenVerifier
	Cache     IdentityCache
	Metrics   metrics.Recorder
	DevBypass bool
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies it,
// and injects the identity into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "No token provided")
				return
			}

			// Development-only bypass with a fabricated identity.
			if cfg.DevBypass && tokenString == BypassToken {
				id := bypassIdentity
				ctx := auth.ContextWithIdentity(r.Context(), &id)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Check the identity cache before paying for verification.
			digest := auth.QuickHash(tokenString)
			var id *model.Identity
			if cfg.Cache != nil {
				id, _ = cfg.Cache.GetIdentity(r.Context(), digest)
			}

			if id != nil {
				recorder.IncIdentityCacheHit()
			} else {
				recorder.IncIdentityCacheMiss()

				verified, err := cfg.Tokens.Verify(tokenString)
				if err != nil {
					recorder.IncTokenRejected()
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "invalid_token"),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w, "Unauthorized")
					return
				}
				recorder.IncTokenVerified()
				id = verified

				if cfg.Cache != nil {
					_ = cfg.Cache.SetIdentity(r.Context(), digest, id)
				}
			}

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns empty string if the header is absent or malformed.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"UNAUTHORIZED"}`))
}
