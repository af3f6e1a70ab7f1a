package metrics

import (
	"sync"
	"sync/atomic"
)

// InMemory is a Recorder backed by atomic counters.
// Cheap enough for the hot path; exposed via Snapshot for tests and
// debug endpoints.
type InMemory struct {
	loginSuccess  atomic.Int64
	loginFailure  atomic.Int64
	registrations atomic.Int64

	mu       sync.Mutex
	rejected map[string]int64

	tokensVerified      atomic.Int64
	tokensRejected      atomic.Int64
	identityCacheHits   atomic.Int64
	identityCacheMisses atomic.Int64
}

// NewInMemory creates an in-memory Recorder.
func NewInMemory() *InMemory {
	return &InMemory{rejected: make(map[string]int64)}
}

func (m *InMemory) IncLoginSuccess() { m.loginSuccess.Add(1) }
func (m *InMemory) IncLoginFailure() { m.loginFailure.Add(1) }
func (m *InMemory) IncRegistration() { m.registrations.Add(1) }

func (m *InMemory) IncRegistrationRejected(reason string) {
	m.mu.Lock()
	m.rejected[reason]++
	m.mu.Unlock()
}

func (m *InMemory) IncTokenVerified()     { m.tokensVerified.Add(1) }
func (m *InMemory) IncTokenRejected()     { m.tokensRejected.Add(1) }
func (m *InMemory) IncIdentityCacheHit()  { m.identityCacheHits.Add(1) }
func (m *InMemory) IncIdentityCacheMiss() { m.identityCacheMisses.Add(1) }

// Snapshot returns a point-in-time copy of all counters.
func (m *InMemory) Snapshot() Snapshot {
	m.mu.Lock()
	rejected := make(map[string]int64, len(m.rejected))
	for k, v := range m.rejected {
		rejected[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		LoginSuccess:          m.loginSuccess.Load(),
		LoginFailure:          m.loginFailure.Load(),
		Registrations:         m.registrations.Load(),
		RegistrationsRejected: rejected,
		TokensVerified:        m.tokensVerified.Load(),
		TokensRejected:        m.tokensRejected.Load(),
		IdentityCacheHits:     m.identityCacheHits.Load(),
		IdentityCacheMisses:   m.identityCacheMisses.Load(),
	}
}
