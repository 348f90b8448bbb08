package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultRoomName is used when a room is created without a name.
const DefaultRoomName = "New Chat"

// Room представляет чат-комнату, принадлежащую ровно одному пользователю
type Room struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"` // владелец, задается при создании и не меняется
	Deleted   bool      `json:"deleted"` // soft delete флаг
}

// NewRoom builds a room owned by ownerID. A blank name falls back to DefaultRoomName.
func NewRoom(ownerID int64, name string, now time.Time) (*Room, error) {
	if ownerID <= 0 {
		return nil, errors.New("room owner is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultRoomName
	}

	return &Room{
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether userID is the owner of the room.
func (r *Room) OwnedBy(userID int64) bool {
	return r != nil && userID > 0 && r.OwnerID == userID
}
