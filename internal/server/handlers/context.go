package handlers

import (
	"context"
	"net/http"

	"github.com/iudanet/gophchat/internal/models"
)

type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// OperationKey ключ для логической операции, определенной middleware
	OperationKey contextKey = "operation"
)

// WithUserID кладет id аутентифицированного пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok && userID > 0
}

// WithOperation кладет разрешенную операцию в контекст
func WithOperation(ctx context.Context, op models.Operation) context.Context {
	return context.WithValue(ctx, OperationKey, op)
}

// OperationFrom возвращает операцию запроса: из контекста (если был _method),
// иначе по HTTP методу
func OperationFrom(r *http.Request) models.Operation {
	if op, ok := r.Context().Value(OperationKey).(models.Operation); ok {
		return op
	}
	return models.ParseOperation(r.Method)
}
