package api

import "time"

// Room представление комнаты
type Room struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
}

// Message представление сообщения
type Message struct {
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"` // "user" или "bot"
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
}

// RoomDetails комната вместе со страницей сообщений
type RoomDetails struct {
	Room     Room      `json:"room"`
	Messages []Message `json:"messages"`
}

// CreateRoomRequest создает комнату; пустое имя заменяется на "New Chat"
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// UpdateRoomRequest переименовывает комнату
type UpdateRoomRequest struct {
	Name   string `json:"name"`
	Method string `json:"_method,omitempty"`
}

// MethodOverride тело запроса, которым POST превращается в DELETE/PUT
type MethodOverride struct {
	Method string `json:"_method"`
}

// HistoryItem одна предыдущая реплика в формате completion API
type HistoryItem struct {
	Role    string `json:"role"` // "user" или "assistant"
	Content string `json:"content"`
}

// ChatRequest отправка сообщения в комнату
type ChatRequest struct {
	Message string        `json:"message"`
	History []HistoryItem `json:"history,omitempty"`
	RoomID  int64         `json:"roomId"`
}

// ChatResponse ответ бота
type ChatResponse struct {
	Response      string `json:"response"`
	UserMessageID int64  `json:"user_message_id"`
	BotMessageID  int64  `json:"bot_message_id"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
