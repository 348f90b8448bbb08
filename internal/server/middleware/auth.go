package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/gophchat/internal/server/handlers"
	"github.com/iudanet/gophchat/internal/server/jwt"
	"github.com/iudanet/gophchat/pkg/api"
)

// TokenVerifier проверяет bearer токен и возвращает его claims
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена
// Любая ошибка (нет заголовка, неверный формат, истекший токен) дает одинаковый 401
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing Authorization header", "path", r.URL.Path)
				writeJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				writeJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("Invalid access token", "error", err, "request_id", RequestIDFrom(r.Context()))
				writeJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			logger.Debug("User authenticated", "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// writeJSONError отвечает ошибкой в общем конверте API
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Success: false, Message: message})
}
