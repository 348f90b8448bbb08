package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost cost factor bcrypt для паролей пользователей
const DefaultPasswordCost = 12

// PasswordHasher хеширует и проверяет пароли пользователей.
// Результат Hash самодостаточен: соль и cost хранятся внутри строки.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создает хешер с cost по умолчанию
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultPasswordCost}
}

// NewPasswordHasherWithCost создает хешер с указанным cost (используется в тестах)
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash возвращает bcrypt хеш пароля со случайной солью
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify сравнивает пароль с хешем. Любая ошибка разбора хеша дает false.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	if digest == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// битый хеш: неверный префикс, длина или cost
		return false
	}

	return err == nil
}
