package dto

import (
	"time"

	"github.com/spec-kit/room-booking/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the shape the UI consumes on register and login.
type AuthResponse struct {
	Token       string `json:"token"`
	Type        string `json:"type"`
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// NewAuthResponse maps a user and their bearer token onto the wire shape.
func NewAuthResponse(user *domain.User, token string) AuthResponse {
	return AuthResponse{
		Token:       token,
		Type:        "Bearer",
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// UserResponse is the admin view of an account. Password hashes never leave
// the service.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUserResponse maps a user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
	}
}

// UserUpdateRequest is the admin partial-update payload.
type UserUpdateRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
}

// EmailChangeRequest payload for PATCH .../email.
type EmailChangeRequest struct {
	NewEmail string `json:"newEmail"`
}
