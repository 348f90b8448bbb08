package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/storage"
)

// Guard is the single ownership check in front of every room-scoped operation.
// It is stateless and looks the room up on every call.
type Guard struct {
	rooms  storage.RoomStorage
	logger *slog.Logger
}

// NewGuard creates a guard over the room store
func NewGuard(rooms storage.RoomStorage, logger *slog.Logger) *Guard {
	return &Guard{rooms: rooms, logger: logger}
}

// Authorize returns the room if userID owns it. A missing, deleted or foreign
// room produces the same forbidden error.
func (g *Guard) Authorize(ctx context.Context, userID, roomID int64) (*models.Room, error) {
	if userID <= 0 || roomID <= 0 {
		return nil, forbidden(nil)
	}

	room, err := g.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, forbidden(err)
		}
		g.logger.Error("failed to load room for authorization",
			slog.Int64("room_id", roomID),
			slog.String("error", err.Error()))
		return nil, persistenceError("authorize room", err)
	}

	if !room.OwnedBy(userID) {
		g.logger.Warn("room access denied",
			slog.Int64("user_id", userID),
			slog.Int64("room_id", roomID))
		return nil, forbidden(nil)
	}

	return room, nil
}
