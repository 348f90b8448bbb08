package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/storage"
	"github.com/iudanet/gophchat/internal/validation"
)

// Пагинация списков
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// RoomDetails is a room together with one page of its visible messages
type RoomDetails struct {
	Room     *models.Room
	Messages []*models.Message
}

// Rooms manages the caller's rooms and their messages
type Rooms struct {
	rooms    storage.RoomStorage
	messages storage.MessageStorage
	guard    *Guard
	logger   *slog.Logger
	now      func() time.Time
}

// NewRooms creates the room service
func NewRooms(rooms storage.RoomStorage, messages storage.MessageStorage, guard *Guard, logger *slog.Logger) *Rooms {
	return &Rooms{
		rooms:    rooms,
		messages: messages,
		guard:    guard,
		logger:   logger,
		now:      time.Now,
	}
}

// NormalizePage clamps limit to (0, MaxPageLimit] and offset to >= 0
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Create creates a room owned by userID. A blank name becomes models.DefaultRoomName.
func (s *Rooms) Create(ctx context.Context, userID int64, name string) (*models.Room, error) {
	if strings.TrimSpace(name) != "" {
		if err := validation.ValidateRoomName(name); err != nil {
			return nil, validationError(err)
		}
	}

	room, err := models.NewRoom(userID, name, s.now())
	if err != nil {
		return nil, validationError(err)
	}

	if _, err := s.rooms.CreateRoom(ctx, room); err != nil {
		s.logger.Error("failed to create room",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, persistenceError("create room", err)
	}

	return room, nil
}

// List returns the caller's rooms, most recently updated first
func (s *Rooms) List(ctx context.Context, userID int64, limit, offset int) ([]*models.Room, error) {
	limit, offset = NormalizePage(limit, offset)

	rooms, err := s.rooms.ListRoomsByOwner(ctx, userID, limit, offset)
	if err != nil {
		return nil, persistenceError("list rooms", err)
	}
	return rooms, nil
}

// Get returns the room and a page of its messages in conversation order
func (s *Rooms) Get(ctx context.Context, userID, roomID int64, limit, offset int) (*RoomDetails, error) {
	room, err := s.guard.Authorize(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	limit, offset = NormalizePage(limit, offset)
	messages, err := s.messages.ListMessagesByRoom(ctx, roomID, limit, offset)
	if err != nil {
		return nil, persistenceError("list messages", err)
	}

	return &RoomDetails{Room: room, Messages: messages}, nil
}

// Rename changes the room name
func (s *Rooms) Rename(ctx context.Context, userID, roomID int64, name string) (*models.Room, error) {
	if _, err := s.guard.Authorize(ctx, userID, roomID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validation.ValidateRoomName(name); err != nil {
		return nil, validationError(err)
	}

	if err := s.rooms.UpdateRoom(ctx, roomID, userID, name, s.now()); err != nil {
		// комнату удалили между проверкой и обновлением
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, forbidden(err)
		}
		return nil, persistenceError("update room", err)
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, forbidden(err)
		}
		return nil, persistenceError("get room", err)
	}
	return room, nil
}

// Delete soft-deletes the room
func (s *Rooms) Delete(ctx context.Context, userID, roomID int64) error {
	if _, err := s.guard.Authorize(ctx, userID, roomID); err != nil {
		return err
	}

	if err := s.rooms.DeleteRoom(ctx, roomID, userID, s.now()); err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			return forbidden(err)
		}
		return persistenceError("delete room", err)
	}

	s.logger.Info("room deleted", slog.Int64("room_id", roomID))
	return nil
}

// DeleteMessage soft-deletes a message of the room.
// Deleting an already deleted message succeeds.
func (s *Rooms) DeleteMessage(ctx context.Context, userID, roomID, messageID int64) error {
	if _, err := s.guard.Authorize(ctx, userID, roomID); err != nil {
		return err
	}

	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return notFoundError("message not found", err)
		}
		return persistenceError("get message", err)
	}
	if msg.RoomID != roomID {
		return notFoundError("message not found", nil)
	}

	if err := s.messages.DeleteMessage(ctx, messageID, s.now()); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return notFoundError("message not found", err)
		}
		return persistenceError("delete message", err)
	}

	return nil
}
