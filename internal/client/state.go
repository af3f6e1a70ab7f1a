package client

import (
	"sync"

	"github.com/accountd/accountd/internal/handler/dto"
)

// State is the shared session state the UI renders from.
type State struct {
	// User is the signed-in user, nil when logged out.
	User *dto.UserResponse
	// Loading is true while an action is in flight.
	Loading bool
	// Err is the last action's failure message, "" on success.
	Err string
}

// StateStore is a single-writer-per-action state container. Each action
// calls begin() when it starts and settle() exactly once when it finishes.
// Settlements are ordered by completion, not issuance: a settlement from an
// action that began before the most recently settled one is dropped, so a
// slow failing request cannot clobber the result of a newer one.
type StateStore struct {
	mu sync.Mutex

	state       State
	nextTicket  uint64
	lastSettled uint64

	subscribers []func(State)
}

// NewStateStore returns an empty, logged-out state container.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// State returns a snapshot of the current state.
func (s *StateStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked with a snapshot after every
// state change. Callbacks run synchronously under the store's lock order,
// so they must not call back into the store.
func (s *StateStore) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// begin marks an action as in flight and returns its ticket.
func (s *StateStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTicket++
	ticket := s.nextTicket
	s.state.Loading = true
	s.state.Err = ""
	s.notifyLocked()
	return ticket
}

// settle applies an action's result. Returns false when the settlement
// was stale and dropped.
func (s *StateStore) settle(ticket uint64, user *dto.UserResponse, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket < s.lastSettled {
		return false
	}
	s.lastSettled = ticket

	// Still loading while actions newer than this one are unsettled.
	s.state.Loading = s.nextTicket > s.lastSettled
	s.state.Err = errMsg
	if errMsg == "" {
		s.state.User = user
	}
	s.notifyLocked()
	return true
}

// clearIdentity drops the user unconditionally, used for logout and
// defensive invalidation on 401/403.
func (s *StateStore) clearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = nil
	s.state.Err = ""
	s.state.Loading = false
	s.notifyLocked()
}

func (s *StateStore) notifyLocked() {
	snapshot := s.state
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}
