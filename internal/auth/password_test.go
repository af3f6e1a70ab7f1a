package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/accountd/accountd/internal/model"
)

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	hash1, err := HashPassword("qwerty12")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("qwerty12")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Same password should produce different hashes (random salt).
	if hash1 == hash2 {
		t.Error("expected distinct hashes for the same password")
	}

	if !strings.HasPrefix(hash1, "$2") {
		t.Errorf("expected bcrypt hash, got %s", hash1)
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("qwerty12")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !VerifyPassword("qwerty12", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("qwerty13", hash) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("qwerty12", "") {
		t.Error("empty stored hash should not verify")
	}
}

func TestQuickHash_Deterministic(t *testing.T) {
	t.Parallel()

	a := QuickHash("some-token")
	b := QuickHash("some-token")
	c := QuickHash("other-token")

	if a != b {
		t.Error("QuickHash should be deterministic")
	}
	if a == c {
		t.Error("distinct inputs should produce distinct digests")
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
}

func TestIdentityContext_RoundTrip(t *testing.T) {
	t.Parallel()

	id := &model.Identity{UserID: "u-1", Email: "a@b.com"}
	ctx := ContextWithIdentity(context.Background(), id)

	got := IdentityFromContext(ctx)
	if got == nil || got.UserID != "u-1" || got.Email != "a@b.com" {
		t.Errorf("unexpected identity from context: %+v", got)
	}

	if UserIDFromContext(ctx) != "u-1" {
		t.Errorf("unexpected user ID: %s", UserIDFromContext(ctx))
	}
}

func TestIdentityContext_Absent(t *testing.T) {
	t.Parallel()

	if IdentityFromContext(context.Background()) != nil {
		t.Error("expected nil identity on bare context")
	}
	if UserIDFromContext(context.Background()) != "" {
		t.Error("expected empty user ID on bare context")
	}
}
