// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/model"
)

// RequireEnv skips the test if the environment variable is unset.
// Integration tests use this to opt in via DATABASE_URL / REDIS_URL.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	val := os.Getenv(key)
	if val == "" {
		t.Skipf("skipping: %s not set", key)
	}
	return val
}

// NewTestUser builds a user record with a unique email and a real
// bcrypt hash of the given password.
func NewTestUser(t *testing.T, password string) model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	id := ulid.Make().String()
	now := time.Now().UTC()
	return model.User{
		ID:           id,
		Email:        fmt.Sprintf("user-%s@example.com", id),
		Name:         "Integration Tester",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FlushRedis clears the redis database used by a test and registers
// a cleanup to close the client.
func FlushRedis(t *testing.T, redisURL string) *redis.Client {
	t.Helper()
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}
