// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/accountd/accountd/internal/model"
)

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial merge-update of the current user.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UserResponse represents a user in API responses.
// It never carries the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse is the success body for login.
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// RegisterResponse is the success body for registration.
type RegisterResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
	Token   string        `json:"token"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserUpdate converts an UpdateUserRequest to the model update.
func (r UpdateUserRequest) ToUserUpdate() model.UserUpdate {
	return model.UserUpdate{
		Name:  r.Name,
		Email: r.Email,
	}
}
