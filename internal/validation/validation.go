package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 6
	// MaxPasswordLen bcrypt игнорирует все, что длиннее 72 байт
	MaxPasswordLen = 72
	// MaxEmailLen максимальная длина email (размер колонки)
	MaxEmailLen = 255
	// MaxNameLen максимальная длина имени пользователя или комнаты
	MaxNameLen = 255
	// MaxMessageLen максимальная длина одного сообщения в символах
	MaxMessageLen = 16000
)

// ValidateEmail проверяет, что строка является одиночным email адресом
// без display name ("Alice <a@x.com>" не принимается).
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("invalid email address")
	}

	if !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}

// ValidateName проверяет отображаемое имя пользователя (может быть пустым)
func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidateRoomName проверяет новое имя комнаты при переименовании
func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("room name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("room name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidateMessageText проверяет текст сообщения перед отправкой
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return fmt.Errorf("message must not exceed %d characters", MaxMessageLen)
	}
	return nil
}
