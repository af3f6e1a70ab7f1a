package token

import (
	"errors"
	"testing"
	"time"

	"github.com/accountd/accountd/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    "01HV5TESTUSER0000000000000",
		Email: "a@b.com",
		Name:  "Alice1",
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager("unit-test-secret")

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	id, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if id.UserID != "01HV5TESTUSER0000000000000" {
		t.Errorf("expected subject to match user ID, got %s", id.UserID)
	}
	if id.Email != "a@b.com" {
		t.Errorf("expected email a@b.com, got %s", id.Email)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewManager("secret-one")
	verifier := NewManager("secret-two")

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewManager("unit-test-secret")

	// Issue in the past, verify in the present.
	issued := time.Now().Add(-25 * time.Hour)
	m.now = func() time.Time { return issued }

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for token older than 24h, got %v", err)
	}
}

func TestVerify_JustInsideLifetime(t *testing.T) {
	t.Parallel()

	m := NewManager("unit-test-secret")

	issued := time.Now().Add(-23 * time.Hour)
	m.now = func() time.Time { return issued }

	tok, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(tok); err != nil {
		t.Errorf("token 23h old should still verify, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	m := NewManager("unit-test-secret")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewManager_FallbackSecret(t *testing.T) {
	t.Parallel()

	m := NewManager("")
	if !m.UsesFallbackSecret() {
		t.Error("empty secret should fall back to the development constant")
	}

	m = NewManager("explicit")
	if m.UsesFallbackSecret() {
		t.Error("explicit secret should not be reported as fallback")
	}
}
