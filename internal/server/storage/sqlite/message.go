package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/storage"
)

// CreateMessage stores a message in the room
func (s *Storage) CreateMessage(ctx context.Context, msg *models.Message) (int64, error) {
	if !msg.Sender.Valid() {
		return 0, fmt.Errorf("invalid sender %q", msg.Sender)
	}

	query := `
		INSERT INTO messages (room_id, text, sender, deleted, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		msg.RoomID,
		msg.Text,
		string(msg.Sender),
		toNano(msg.CreatedAt),
		toNano(msg.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get message id: %w", err)
	}

	msg.ID = id
	return id, nil
}

// GetMessage retrieves message by ID (soft-deleted included)
func (s *Storage) GetMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	query := `
		SELECT id, room_id, text, sender, deleted, created_at, updated_at
		FROM messages
		WHERE id = ?
	`

	msg, err := scanMessage(s.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return msg, nil
}

// ListMessagesByRoom returns visible messages in conversation order
func (s *Storage) ListMessagesByRoom(ctx context.Context, roomID int64, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT id, room_id, text, sender, deleted, created_at, updated_at
		FROM messages
		WHERE room_id = ? AND deleted = 0
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	return s.queryMessages(ctx, query, roomID, limit, offset)
}

// ListLastMessages returns the tail of the conversation, oldest first
func (s *Storage) ListLastMessages(ctx context.Context, roomID int64, limit int) ([]*models.Message, error) {
	// Берем последние N по убыванию и разворачиваем во внешнем запросе
	query := `
		SELECT id, room_id, text, sender, deleted, created_at, updated_at
		FROM (
			SELECT id, room_id, text, sender, deleted, created_at, updated_at
			FROM messages
			WHERE room_id = ? AND deleted = 0
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, id ASC
	`

	return s.queryMessages(ctx, query, roomID, limit)
}

// UpdateMessageText replaces text of a visible message
func (s *Storage) UpdateMessageText(ctx context.Context, messageID int64, text string, updatedAt time.Time) error {
	query := `UPDATE messages SET text = ?, updated_at = ? WHERE id = ? AND deleted = 0`

	result, err := s.db.ExecContext(ctx, query, text, toNano(updatedAt), messageID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	return requireAffected(result, storage.ErrMessageNotFound)
}

// DeleteMessage soft-deletes message
func (s *Storage) DeleteMessage(ctx context.Context, messageID int64, deletedAt time.Time) error {
	query := `
		UPDATE messages
		SET deleted = 1,
		    updated_at = CASE WHEN deleted = 0 THEN ? ELSE updated_at END
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, toNano(deletedAt), messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return requireAffected(result, storage.ErrMessageNotFound)
}

func (s *Storage) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func scanMessage(row rowScanner) (*models.Message, error) {
	msg := &models.Message{}
	var (
		sender               string
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&msg.ID,
		&msg.RoomID,
		&msg.Text,
		&sender,
		&msg.Deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	msg.Sender, err = models.ParseSender(sender)
	if err != nil {
		return nil, err
	}
	msg.CreatedAt = fromNano(createdAt)
	msg.UpdatedAt = fromNano(updatedAt)

	return msg, nil
}
