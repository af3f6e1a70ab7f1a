package client

import (
	"context"
	"errors"

	"github.com/accountd/accountd/internal/handler/dto"
)

// Session ties the API client, the persisted token, and the shared state
// container together. All methods are safe for concurrent use; the state
// container arbitrates concurrent settlements.
type Session struct {
	api    *APIClient
	tokens TokenStore
	state  *StateStore
}

// NewSession creates a session manager. The state store may be shared with
// UI code observing it via Subscribe.
func NewSession(api *APIClient, tokens TokenStore, state *StateStore) *Session {
	if state == nil {
		state = NewStateStore()
	}
	return &Session{api: api, tokens: tokens, state: state}
}

// State exposes the shared state container.
func (s *Session) State() *StateStore {
	return s.state
}

// Token returns the currently persisted token, "" when logged out.
func (s *Session) Token() (string, error) {
	return s.tokens.Token()
}

// Restore re-establishes identity from the persisted token, the page-load
// path. Any failure to fetch the identity discards the token and leaves
// the session logged out; restore failures are not surfaced as errors.
func (s *Session) Restore(ctx context.Context) (*dto.UserResponse, error) {
	tok, err := s.tokens.Token()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, nil
	}

	ticket := s.state.begin()
	user, err := s.api.Me(ctx, tok)
	if err != nil {
		// Stale or invalid token: drop it and stay logged out.
		_ = s.tokens.Clear()
		s.state.settle(ticket, nil, "")
		return nil, nil
	}

	s.state.settle(ticket, user, "")
	return user, nil
}

// SignIn logs in, persists the token, and updates shared state.
func (s *Session) SignIn(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	ticket := s.state.begin()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.state.settle(ticket, nil, errMessage(err))
		return nil, err
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		s.state.settle(ticket, nil, errMessage(err))
		return nil, err
	}

	s.state.settle(ticket, resp.User, "")
	return resp.User, nil
}

// SignUp registers a new account, persists the token, and updates shared
// state.
func (s *Session) SignUp(ctx context.Context, email, name, password string) (*dto.UserResponse, error) {
	ticket := s.state.begin()

	resp, err := s.api.Register(ctx, email, name, password)
	if err != nil {
		s.state.settle(ticket, nil, errMessage(err))
		return nil, err
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		s.state.settle(ticket, nil, errMessage(err))
		return nil, err
	}

	s.state.settle(ticket, resp.User, "")
	return resp.User, nil
}

// Logout clears the persisted token and identity. Purely local; tokens
// have no server-side revocation.
func (s *Session) Logout() error {
	err := s.tokens.Clear()
	s.state.clearIdentity()
	return err
}

// UpdateProfile merges the given fields into the current user's record
// and refreshes shared identity state with the server's response.
func (s *Session) UpdateProfile(ctx context.Context, update dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tok, err := s.tokens.Token()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, errors.New("not signed in")
	}

	ticket := s.state.begin()
	user, err := s.api.UpdateProfile(ctx, tok, update)
	if err != nil {
		s.state.settle(ticket, nil, errMessage(err))
		s.invalidateOnAuthError(err)
		return nil, err
	}

	s.state.settle(ticket, user, "")
	return user, nil
}

// invalidateOnAuthError clears the token and identity when the server
// rejected the token. Defensive: any 401/403 means the session is over.
func (s *Session) invalidateOnAuthError(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsAuthError() {
		_ = s.tokens.Clear()
		s.state.clearIdentity()
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
