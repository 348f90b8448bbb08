package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/storage"
)

func messageIDs(messages []*models.Message) []int64 {
	ids := make([]int64, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

func setupRoom(t *testing.T, ctx context.Context, s *Storage) int64 {
	t.Helper()
	owner := createTestUser(t, ctx, s, "owner@x.com")
	return createTestRoom(t, ctx, s, owner, "room", baseTime)
}

func TestMessageStorage_CreateGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)
	id := createTestMessage(t, ctx, s, roomID, "Hello", models.SenderUser, baseTime)

	msg, err := s.GetMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, roomID, msg.RoomID)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, models.SenderUser, msg.Sender)
	assert.False(t, msg.Deleted)

	_, err = s.GetMessage(ctx, id+100)
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestMessageStorage_CreateMessage_InvalidSender(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)

	tests := []struct {
		name   string
		sender models.Sender
	}{
		{name: "empty sender", sender: ""},
		{name: "assistant is not a stored sender", sender: "assistant"},
		{name: "upper case", sender: "USER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &models.Message{RoomID: roomID, Text: "x", Sender: tt.sender, CreatedAt: baseTime, UpdatedAt: baseTime}
			_, err := s.CreateMessage(ctx, msg)
			assert.Error(t, err)
		})
	}
}

func TestMessageStorage_ListMessagesByRoom_Order(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)

	second := createTestMessage(t, ctx, s, roomID, "second", models.SenderBot, baseTime.Add(time.Minute))
	first := createTestMessage(t, ctx, s, roomID, "first", models.SenderUser, baseTime)
	// одинаковое время: порядок по id
	tieA := createTestMessage(t, ctx, s, roomID, "tie a", models.SenderUser, baseTime.Add(time.Hour))
	tieB := createTestMessage(t, ctx, s, roomID, "tie b", models.SenderBot, baseTime.Add(time.Hour))

	messages, err := s.ListMessagesByRoom(ctx, roomID, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{first, second, tieA, tieB}, messageIDs(messages))

	messages, err = s.ListMessagesByRoom(ctx, roomID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{second, tieA}, messageIDs(messages))
}

func TestMessageStorage_ListMessagesByRoom_ScopedToRoom(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s, "owner@x.com")
	roomA := createTestRoom(t, ctx, s, owner, "a", baseTime)
	roomB := createTestRoom(t, ctx, s, owner, "b", baseTime)

	inA := createTestMessage(t, ctx, s, roomA, "in a", models.SenderUser, baseTime)
	createTestMessage(t, ctx, s, roomB, "in b", models.SenderUser, baseTime)

	messages, err := s.ListMessagesByRoom(ctx, roomA, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{inA}, messageIDs(messages))
}

func TestMessageStorage_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)
	keep := createTestMessage(t, ctx, s, roomID, "keep", models.SenderUser, baseTime)
	drop := createTestMessage(t, ctx, s, roomID, "drop", models.SenderBot, baseTime.Add(time.Second))

	deletedAt := baseTime.Add(time.Hour)
	require.NoError(t, s.DeleteMessage(ctx, drop, deletedAt))

	messages, err := s.ListMessagesByRoom(ctx, roomID, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{keep}, messageIDs(messages))

	// Прямой поиск по id видит удаленное сообщение
	msg, err := s.GetMessage(ctx, drop)
	require.NoError(t, err)
	assert.True(t, msg.Deleted)
	assert.Equal(t, "drop", msg.Text)
	assert.True(t, deletedAt.Equal(msg.UpdatedAt))

	// Повторное удаление не ошибка и не меняет updated_at
	require.NoError(t, s.DeleteMessage(ctx, drop, deletedAt.Add(time.Hour)))
	msg, err = s.GetMessage(ctx, drop)
	require.NoError(t, err)
	assert.True(t, deletedAt.Equal(msg.UpdatedAt))

	err = s.DeleteMessage(ctx, drop+100, deletedAt)
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestMessageStorage_ListLastMessages(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)

	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, createTestMessage(t, ctx, s, roomID, "m", models.SenderUser, baseTime.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, s.DeleteMessage(ctx, ids[4], baseTime.Add(time.Hour)))

	messages, err := s.ListLastMessages(ctx, roomID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[2], ids[3]}, messageIDs(messages))

	messages, err = s.ListLastMessages(ctx, roomID, 20)
	require.NoError(t, err)
	assert.Equal(t, ids[:4], messageIDs(messages))
}

func TestMessageStorage_UpdateMessageText(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	roomID := setupRoom(t, ctx, s)
	id := createTestMessage(t, ctx, s, roomID, "draft", models.SenderUser, baseTime)

	later := baseTime.Add(time.Minute)
	require.NoError(t, s.UpdateMessageText(ctx, id, "final", later))

	msg, err := s.GetMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "final", msg.Text)
	assert.True(t, later.Equal(msg.UpdatedAt))
	assert.True(t, baseTime.Equal(msg.CreatedAt))

	require.NoError(t, s.DeleteMessage(ctx, id, later))
	err = s.UpdateMessageText(ctx, id, "again", later)
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}
