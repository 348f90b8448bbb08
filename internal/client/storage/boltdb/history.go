package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophchat/internal/client/storage"
)

// roomKey big-endian, чтобы ключи комнат шли по возрастанию id
func roomKey(roomID int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(roomID))
	return key
}

// GetHistory returns cached turns of a room, oldest first
func (s *Storage) GetHistory(ctx context.Context, roomID int64) ([]storage.Turn, error) {
	turns := []storage.Turn{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}

		data := bucket.Get(roomKey(roomID))
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, &turns); err != nil {
			return fmt.Errorf("failed to unmarshal history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return turns, nil
}

// ReplaceHistory overwrites the cached turns of a room
func (s *Storage) ReplaceHistory(ctx context.Context, roomID int64, turns []storage.Turn) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}
		return putTurns(bucket, roomID, turns)
	})
}

// AppendHistory adds turns in one transaction and keeps the newest MaxHistoryTurns
func (s *Storage) AppendHistory(ctx context.Context, roomID int64, turns ...storage.Turn) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}

		var existing []storage.Turn
		if data := bucket.Get(roomKey(roomID)); data != nil {
			if err := json.Unmarshal(data, &existing); err != nil {
				return fmt.Errorf("failed to unmarshal history: %w", err)
			}
		}

		return putTurns(bucket, roomID, append(existing, turns...))
	})
}

// DeleteHistory drops the cache of one room; a missing room is not an error
func (s *Storage) DeleteHistory(ctx context.Context, roomID int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHistory)
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}
		return bucket.Delete(roomKey(roomID))
	})
}

// ClearHistory drops the cache of all rooms
func (s *Storage) ClearHistory(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketHistory) != nil {
			if err := tx.DeleteBucket(bucketHistory); err != nil {
				return fmt.Errorf("failed to delete history bucket: %w", err)
			}
		}
		if _, err := tx.CreateBucket(bucketHistory); err != nil {
			return fmt.Errorf("failed to create history bucket: %w", err)
		}
		return nil
	})
}

func putTurns(bucket *bbolt.Bucket, roomID int64, turns []storage.Turn) error {
	if len(turns) > storage.MaxHistoryTurns {
		turns = turns[len(turns)-storage.MaxHistoryTurns:]
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := bucket.Put(roomKey(roomID), data); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
