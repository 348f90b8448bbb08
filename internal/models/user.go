package models

import (
	"errors"
	"strings"
	"time"
)

// User представляет зарегистрированного пользователя
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время регистрации
	UpdatedAt    time.Time `json:"updated_at"` // время последнего изменения профиля
	Email        string    `json:"email"`      // уникальный email (регистр учитывается)
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, наружу не отдается
	Name         string    `json:"name"`       // отображаемое имя, может быть пустым
	ID           int64     `json:"id"`         // автоинкрементный идентификатор
}

// NewUser builds a user record that is ready to be persisted.
// Email and password hash are required; the name is optional.
func NewUser(email, passwordHash, name string, now time.Time) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("user email is required")
	}
	if passwordHash == "" {
		return nil, errors.New("user password hash is required")
	}

	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
