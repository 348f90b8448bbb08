package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophchat/internal/models"
)

// MessageStorage defines interface for message persistence.
// Ownership is not checked here: callers authorize the room first.
type MessageStorage interface {
	// CreateMessage stores a message and returns its id.
	// Sender must be models.SenderUser or models.SenderBot
	CreateMessage(ctx context.Context, msg *models.Message) (int64, error)

	// GetMessage retrieves a message by ID, soft-deleted rows included
	// Returns ErrMessageNotFound if message doesn't exist
	GetMessage(ctx context.Context, messageID int64) (*models.Message, error)

	// ListMessagesByRoom returns visible messages oldest first (ties broken by id)
	ListMessagesByRoom(ctx context.Context, roomID int64, limit, offset int) ([]*models.Message, error)

	// ListLastMessages returns the last limit visible messages, oldest first
	ListLastMessages(ctx context.Context, roomID int64, limit int) ([]*models.Message, error)

	// UpdateMessageText replaces the text of a visible message
	// Returns ErrMessageNotFound if message doesn't exist or is deleted
	UpdateMessageText(ctx context.Context, messageID int64, text string, updatedAt time.Time) error

	// DeleteMessage sets the soft-delete flag; the row is kept.
	// Returns ErrMessageNotFound if message doesn't exist
	DeleteMessage(ctx context.Context, messageID int64, deletedAt time.Time) error
}

// Storage объединяет все хранилища сервера
type Storage interface {
	UserStorage
	RoomStorage
	MessageStorage

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
	Close() error
}
