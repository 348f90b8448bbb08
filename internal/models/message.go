package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sender identifies who produced a message.
type Sender string

const (
	// SenderUser marks a message typed by the room owner
	SenderUser Sender = "user"
	// SenderBot marks a reply produced by the completion service
	SenderBot Sender = "bot"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// ParseSender converts a stored sender value back to Sender.
func ParseSender(s string) (Sender, error) {
	sender := Sender(s)
	if !sender.Valid() {
		return "", fmt.Errorf("unknown sender %q", s)
	}
	return sender, nil
}

// Message представляет одно сообщение в комнате.
// Каждая реплика (пользователя или бота) хранится отдельной строкой.
type Message struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	Deleted   bool      `json:"deleted"`
}

// NewMessage builds a message for roomID. Text must not be blank and the
// sender must be SenderUser or SenderBot.
func NewMessage(roomID int64, text string, sender Sender, now time.Time) (*Message, error) {
	if roomID <= 0 {
		return nil, errors.New("message room is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("message text is required")
	}
	if !sender.Valid() {
		return nil, fmt.Errorf("invalid message sender %q", sender)
	}

	return &Message{
		RoomID:    roomID,
		Text:      text,
		Sender:    sender,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
