// Package completion talks to an OpenAI-compatible chat completion API.
package completion

import (
	"context"
	"errors"
)

// Role is the author of a prompt message as the completion API sees it.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of the prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer returns a single reply for an ordered prompt.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Причины отказа различаются в логах, пользователю отдается одна ошибка
var (
	ErrNotConfigured = errors.New("completion: api key is not configured")
	ErrNetwork       = errors.New("completion: network error")
	ErrTimeout       = errors.New("completion: request timed out")
	ErrStatus        = errors.New("completion: unexpected status")
	ErrMalformed     = errors.New("completion: malformed response")
	ErrNoContent     = errors.New("completion: response has no content")
)
