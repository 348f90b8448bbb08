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

// CreateRoom creates a new room
func (s *Storage) CreateRoom(ctx context.Context, room *models.Room) (int64, error) {
	query := `
		INSERT INTO rooms (user_id, name, deleted, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		room.OwnerID,
		room.Name,
		toNano(room.CreatedAt),
		toNano(room.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get room id: %w", err)
	}

	room.ID = id
	return id, nil
}

// GetRoom retrieves visible room by ID
func (s *Storage) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `
		SELECT id, user_id, name, deleted, created_at, updated_at
		FROM rooms
		WHERE id = ? AND deleted = 0
	`

	room, err := scanRoom(s.db.QueryRowContext(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// ListRoomsByOwner returns owner's visible rooms, newest activity first
func (s *Storage) ListRoomsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Room, error) {
	query := `
		SELECT id, user_id, name, deleted, created_at, updated_at
		FROM rooms
		WHERE user_id = ? AND deleted = 0
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

// UpdateRoom renames room; ownership is re-checked in the WHERE clause
func (s *Storage) UpdateRoom(ctx context.Context, roomID, ownerID int64, name string, updatedAt time.Time) error {
	query := `
		UPDATE rooms
		SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted = 0
	`

	result, err := s.db.ExecContext(ctx, query, name, toNano(updatedAt), roomID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return requireAffected(result, storage.ErrRoomNotFound)
}

// DeleteRoom soft-deletes room; ownership is re-checked in the WHERE clause
func (s *Storage) DeleteRoom(ctx context.Context, roomID, ownerID int64, deletedAt time.Time) error {
	// Повторное удаление не сдвигает updated_at
	query := `
		UPDATE rooms
		SET deleted = 1,
		    updated_at = CASE WHEN deleted = 0 THEN ? ELSE updated_at END
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query, toNano(deletedAt), roomID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return requireAffected(result, storage.ErrRoomNotFound)
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*models.Room, error) {
	room := &models.Room{}
	var createdAt, updatedAt int64

	err := row.Scan(
		&room.ID,
		&room.OwnerID,
		&room.Name,
		&room.Deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	room.CreatedAt = fromNano(createdAt)
	room.UpdatedAt = fromNano(updatedAt)

	return room, nil
}

// requireAffected возвращает notFound, если запрос не затронул ни одной строки
func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
