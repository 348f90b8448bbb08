package storage

import (
	"context"
)

// AuthStorage defines interface for storing the client session.
type AuthStorage interface {
	// SaveAuth stores the session, replacing any previous one
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if nobody is logged in
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its token has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the logged in user and bearer token
type AuthData struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	ServerURL string `json:"server_url"`
	UserID    int64  `json:"user_id"`
	// ExpiresAt unix seconds from the token's exp claim, 0 if unknown
	ExpiresAt int64 `json:"expires_at"`
}
