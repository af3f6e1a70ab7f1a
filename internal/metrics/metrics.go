// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth flow metrics
	IncLoginSuccess()
	IncLoginFailure()
	IncRegistration()
	IncRegistrationRejected(reason string) // reason: "validation" or "duplicate"

	// Token verification metrics
	IncTokenVerified()
	IncTokenRejected()
	IncIdentityCacheHit()
	IncIdentityCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot is a point-in-time view of the in-memory counters.
type Snapshot struct {
	LoginSuccess          int64            `json:"login_success"`
	LoginFailure          int64            `json:"login_failure"`
	Registrations         int64            `json:"registrations"`
	RegistrationsRejected map[string]int64 `json:"registrations_rejected"`
	TokensVerified        int64            `json:"tokens_verified"`
	TokensRejected        int64            `json:"tokens_rejected"`
	IdentityCacheHits     int64            `json:"identity_cache_hits"`
	IdentityCacheMisses   int64            `json:"identity_cache_misses"`
}
