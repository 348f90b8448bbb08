package cli

import (
	"context"
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	clientapi "github.com/iudanet/gophchat/internal/client/api"
	"github.com/iudanet/gophchat/internal/client/storage"
	"github.com/iudanet/gophchat/pkg/api"
)

// tokenExpiry читает exp из токена без проверки подписи (секрета у клиента нет).
// 0 означает, что срок неизвестен.
func tokenExpiry(token string) int64 {
	claims := gojwt.MapClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}

// saveSession сохраняет результат register/login. Кэш истории принадлежал
// прошлому пользователю, поэтому очищается.
func (c *Cli) saveSession(ctx context.Context, resp *api.AuthResponse) error {
	auth := &storage.AuthData{
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Token:     resp.Token,
		ServerURL: c.serverURL,
		UserID:    resp.User.ID,
		ExpiresAt: tokenExpiry(resp.Token),
	}

	if err := c.store.ClearHistory(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if err := c.store.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func isUnauthorized(err error) bool {
	return clientapi.IsUnauthorized(err)
}

func isNotLoggedIn(err error) bool {
	return errors.Is(err, errNotLoggedIn) || errors.Is(err, errSessionExpired)
}
