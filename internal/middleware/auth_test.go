package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memIdentityCache is an in-process IdentityCache for tests.
type memIdentityCache struct {
	entries map[string]*model.Identity
	hits    int
}

func newMemIdentityCache() *memIdentityCache {
	return &memIdentityCache{entries: make(map[string]*model.Identity)}
}

func (c *memIdentityCache) GetIdentity(_ context.Context, digest string) (*model.Identity, error) {
	if id, ok := c.entries[digest]; ok {
		c.hits++
		return id, nil
	}
	return nil, nil
}

func (c *memIdentityCache) SetIdentity(_ context.Context, digest string, id *model.Identity) error {
	c.entries[digest] = id
	return nil
}

// echoIdentity replies with the identity the middleware attached.
func echoIdentity(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())
		if id == nil {
			t.Error("expected identity in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(id)
	})
}

func authedRequest(tok string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := token.NewManager("middleware-test-secret")
	tok, err := tokens.Issue(&model.User{ID: "u-1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	mw := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens})
	rec := httptest.NewRecorder()
	mw(echoIdentity(t)).ServeHTTP(rec, authedRequest(tok))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var id model.Identity
	if err := json.NewDecoder(rec.Body).Decode(&id); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if id.UserID != "u-1" || id.Email != "a@b.com" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestAuth_MissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	tokens := token.NewManager("middleware-test-secret")
	mw := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"no token", "Bearer"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	tokens := token.NewManager("middleware-test-secret")
	other := token.NewManager("a-different-secret")
	tok, err := other.Issue(&model.User{ID: "u-1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	mw := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens})
	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, authedRequest(tok))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_BypassToken(t *testing.T) {
	t.Parallel()

	tokens := token.NewManager("middleware-test-secret")

	// Enabled: the sentinel yields the fabricated identity.
	mw := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens, DevBypass: true})
	rec := httptest.NewRecorder()
	mw(echoIdentity(t)).ServeHTTP(rec, authedRequest(BypassToken))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bypass enabled, got %d", rec.Code)
	}
	var id model.Identity
	if err := json.NewDecoder(rec.Body).Decode(&id); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if id.UserID != "test-user-id" {
		t.Errorf("expected fabricated identity, got %+v", id)
	}

	// Disabled: the sentinel is just an invalid token.
	mw = Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens, DevBypass: false})
	rec = httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without bypass")
	})).ServeHTTP(rec, authedRequest(BypassToken))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bypass disabled, got %d", rec.Code)
	}
}

func TestAuth_CachesVerifiedIdentity(t *testing.T) {
	t.Parallel()

	tokens := token.NewManager("middleware-test-secret")
	tok, err := tokens.Issue(&model.User{ID: "u-1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	cache := newMemIdentityCache()
	mw := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens, Cache: cache})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, authedRequest(tok))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	if len(cache.entries) != 1 {
		t.Errorf("expected one cached identity, got %d", len(cache.entries))
	}
	if cache.hits != 1 {
		t.Errorf("expected second request to hit the cache, got %d hits", cache.hits)
	}
}
