package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophchat/internal/models"
)

// RoomStorage defines interface for room persistence.
// Soft-deleted rooms are invisible to every read.
type RoomStorage interface {
	// CreateRoom stores a new room and returns its id
	CreateRoom(ctx context.Context, room *models.Room) (int64, error)

	// GetRoom retrieves a visible room by ID
	// Returns ErrRoomNotFound if room doesn't exist or is deleted
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)

	// ListRoomsByOwner returns visible rooms of the owner, most recently updated first
	// (ties broken by id descending)
	ListRoomsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Room, error)

	// UpdateRoom renames the room if ownerID still owns it
	// Returns ErrRoomNotFound when no visible room matches both id and owner
	UpdateRoom(ctx context.Context, roomID, ownerID int64, name string, updatedAt time.Time) error

	// DeleteRoom sets the soft-delete flag if ownerID owns the room.
	// Repeated deletes succeed without touching updated_at again.
	// Returns ErrRoomNotFound when no room matches both id and owner
	DeleteRoom(ctx context.Context, roomID, ownerID int64, deletedAt time.Time) error
}
