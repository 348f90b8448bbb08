package api

import "time"

// Response общий конверт всех ответов API
type Response[T any] struct {
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"` // описание результата или ошибки
	Success bool   `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse = Response[any]

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`          // email, уникальный
	Password string `json:"password"`       // пароль в открытом виде (только по TLS)
	Name     string `json:"name,omitempty"` // отображаемое имя
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User публичное представление пользователя (без хеша пароля)
type User struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ID        int64     `json:"id"`
}

// AuthResponse возвращается после регистрации и входа
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"` // bearer токен
}

// UpdateUserRequest меняет отображаемое имя
type UpdateUserRequest struct {
	Name string `json:"name"`
}

// DeleteAccountRequest подтверждает удаление аккаунта паролем
type DeleteAccountRequest struct {
	Password string `json:"password"`
	Method   string `json:"_method,omitempty"` // override для клиентов без DELETE
}
