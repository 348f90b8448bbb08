package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophchat/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage and returns its id.
	// user.PasswordHash must already be hashed.
	// Returns ErrUserAlreadyExists if email is taken (case-sensitive)
	CreateUser(ctx context.Context, user *models.User) (int64, error)

	// GetUserByEmail retrieves user by email, including the password hash
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// UpdateUserName changes display name and touches updated_at
	// Returns ErrUserNotFound if user doesn't exist
	UpdateUserName(ctx context.Context, userID int64, name string, updatedAt time.Time) error

	// DeleteUser hard-deletes the user together with every owned room and message
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID int64) error
}
