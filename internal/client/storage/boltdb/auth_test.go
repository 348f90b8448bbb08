package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophchat/internal/client/storage"
)

// создаём тестовое BoltDB хранилище во временном каталоге
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "client_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func testAuth() *storage.AuthData {
	return &storage.AuthData{
		Email:     "alice@example.com",
		Name:      "Alice",
		Token:     "header.payload.signature",
		ServerURL: "http://localhost:8080",
		UserID:    7,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
}

func TestStorage_SaveGetDeleteAuth(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	auth := testAuth()

	// До сохранения сессии нет
	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	require.NoError(t, store.SaveAuth(ctx, auth))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)

	authOk, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, authOk)

	// Перезаписываем сессию истекшим токеном
	auth.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	require.NoError(t, store.SaveAuth(ctx, auth))

	authOk, err = store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authOk)

	require.NoError(t, store.DeleteAuth(ctx))

	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	// Повторное удаление сообщает, что сессии нет
	assert.ErrorIs(t, store.DeleteAuth(ctx), storage.ErrAuthNotFound)
}

func TestStorage_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt int64
		expected  bool
	}{
		{name: "future expiry", expiresAt: time.Now().Add(time.Minute).Unix(), expected: true},
		{name: "unknown expiry", expiresAt: 0, expected: true},
		{name: "past expiry", expiresAt: time.Now().Add(-time.Minute).Unix(), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := createTestStorage(t)

			auth := testAuth()
			auth.ExpiresAt = tt.expiresAt
			require.NoError(t, store.SaveAuth(ctx, auth))

			ok, err := store.IsAuthenticated(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestStorage_IsAuthenticated_NoSession(t *testing.T) {
	store := createTestStorage(t)

	// Отсутствие сессии не ошибка
	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_Auth_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Удаляем bucket auth напрямую
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketAuth)
	}))

	_, err := store.GetAuth(ctx)
	assert.ErrorContains(t, err, "auth bucket not found")

	err = store.SaveAuth(ctx, testAuth())
	assert.ErrorContains(t, err, "auth bucket not found")

	err = store.DeleteAuth(ctx)
	assert.ErrorContains(t, err, "auth bucket not found")

	_, err = store.IsAuthenticated(ctx)
	assert.Error(t, err)
}
