package dto

import (
	"time"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// LoginRequest payload for POST /login/auth.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse is returned on successful login. Role lets a client build its own
// session context; the server only trusts the token.
type LoginResponse struct {
	User      string      `json:"user"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// MessageResponse is a plain message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID        int64       `json:"userId"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserResponse strips the password hash.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
