package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/storage"
)

// HistorySource selects where prior turns come from.
type HistorySource string

const (
	// HistoryFromClient trusts the history supplied with the request
	HistoryFromClient HistorySource = "client"
	// HistoryFromStore rebuilds history from persisted visible messages
	HistoryFromStore HistorySource = "store"
)

// StoreHistoryLimit сколько последних сообщений берется из хранилища
const StoreHistoryLimit = 20

// SystemPrompt is prepended to every prompt.
const SystemPrompt = "You are a kind and knowledgeable assistant. Always give fresh, thoughtful " +
	"and original answers to the user's questions and avoid monotonous or repetitive replies. " +
	"Offer different perspectives and concrete examples, and take the user's situation and " +
	"background into account to give useful, detailed answers."

// ParseHistorySource converts a config value to HistorySource
func ParseHistorySource(s string) (HistorySource, error) {
	switch src := HistorySource(strings.ToLower(strings.TrimSpace(s))); src {
	case "", HistoryFromClient:
		return HistoryFromClient, nil
	case HistoryFromStore:
		return HistoryFromStore, nil
	default:
		return "", fmt.Errorf("unknown history source %q", s)
	}
}

// HistoryEntry is a prior turn as supplied by the client
type HistoryEntry struct {
	Role    string
	Content string
}

// Assembler builds the ordered prompt for the completion call
type Assembler struct {
	messages storage.MessageStorage
	source   HistorySource
}

// NewAssembler creates an assembler. messages is only read with HistoryFromStore.
func NewAssembler(messages storage.MessageStorage, source HistorySource) *Assembler {
	if source == "" {
		source = HistoryFromClient
	}
	return &Assembler{messages: messages, source: source}
}

// Source returns the configured history source
func (a *Assembler) Source() HistorySource {
	return a.source
}

// Assemble returns system prompt, prior turns and the new user text, in that order.
// It must run before the new user message is persisted.
func (a *Assembler) Assemble(ctx context.Context, roomID int64, history []HistoryEntry, text string) ([]completion.Message, error) {
	var prior []completion.Message
	var err error

	switch a.source {
	case HistoryFromStore:
		prior, err = a.fromStore(ctx, roomID)
		if err != nil {
			return nil, err
		}
	default:
		prior, err = fromClient(history)
		if err != nil {
			return nil, validationError(err)
		}
	}

	prompt := make([]completion.Message, 0, len(prior)+2)
	prompt = append(prompt, completion.Message{Role: completion.RoleSystem, Content: SystemPrompt})
	prompt = append(prompt, prior...)
	prompt = append(prompt, completion.Message{Role: completion.RoleUser, Content: text})

	return prompt, nil
}

// fromClient переносит историю как есть, в порядке клиента.
// Записи без роли или текста пропускаются.
func fromClient(history []HistoryEntry) ([]completion.Message, error) {
	prior := make([]completion.Message, 0, len(history))
	for i, h := range history {
		if h.Role == "" || h.Content == "" {
			continue
		}

		role := completion.Role(h.Role)
		if role != completion.RoleUser && role != completion.RoleAssistant {
			return nil, fmt.Errorf("history[%d]: role must be user or assistant", i)
		}

		prior = append(prior, completion.Message{Role: role, Content: h.Content})
	}
	return prior, nil
}

func (a *Assembler) fromStore(ctx context.Context, roomID int64) ([]completion.Message, error) {
	stored, err := a.messages.ListLastMessages(ctx, roomID, StoreHistoryLimit)
	if err != nil {
		return nil, persistenceError("load history", err)
	}

	prior := make([]completion.Message, 0, len(stored))
	for _, m := range stored {
		role := completion.RoleUser
		if m.Sender == models.SenderBot {
			role = completion.RoleAssistant
		}
		prior = append(prior, completion.Message{Role: role, Content: m.Text})
	}
	return prior, nil
}
