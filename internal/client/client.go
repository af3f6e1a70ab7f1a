// Package client is the frontend tier as a Go library: an HTTP API
// client, a session manager persisting the token across runs, a shared
// state container, and a navigation guard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/accountd/accountd/internal/handler/dto"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsAuthError reports whether the response means the token is no longer
// usable.
func (e *APIError) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// APIClient talks to the accountd HTTP API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given base URL, e.g.
// "http://localhost:8080".
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Login exchanges credentials for a user record and a bearer token.
func (c *APIClient) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	req := dto.LoginRequest{Email: email, Password: password}
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account and returns the record plus a token.
func (c *APIClient) Register(ctx context.Context, email, name, password string) (*dto.RegisterResponse, error) {
	req := dto.RegisterRequest{Email: email, Name: name, Password: password}
	var resp dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the authenticated user's record.
func (c *APIClient) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/user", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile merges the given partial fields into the authenticated
// user's record and returns the updated record.
func (c *APIClient) UpdateProfile(ctx context.Context, token string, update dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/update-user-data", token, update, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs a JSON request/response round-trip. Non-2xx statuses are
// returned as *APIError with the server's message when one is present.
func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Error
		apiErr.Code = envelope.Code
	}
	return apiErr
}
