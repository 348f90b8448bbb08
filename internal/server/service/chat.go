package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/completion"
	"github.com/iudanet/gophchat/internal/server/storage"
	"github.com/iudanet/gophchat/internal/validation"
)

// SendResult is the outcome of a successful chat turn
type SendResult struct {
	UserMessage *models.Message
	BotMessage  *models.Message
	Reply       string
}

// Chat runs one chat turn: authorize, assemble, persist, complete, persist.
type Chat struct {
	guard     *Guard
	messages  storage.MessageStorage
	assembler *Assembler
	completer completion.Completer
	logger    *slog.Logger
	now       func() time.Time
}

// NewChat creates the chat service
func NewChat(
	guard *Guard,
	messages storage.MessageStorage,
	assembler *Assembler,
	completer completion.Completer,
	logger *slog.Logger,
) *Chat {
	return &Chat{
		guard:     guard,
		messages:  messages,
		assembler: assembler,
		completer: completer,
		logger:    logger,
		now:       time.Now,
	}
}

// Send stores the user's text, asks the completer for a reply and stores it.
// If the completer fails the user message stays persisted and a dependency
// error is returned; the caller may simply send again.
func (c *Chat) Send(ctx context.Context, userID, roomID int64, text string, history []HistoryEntry) (*SendResult, error) {
	if _, err := c.guard.Authorize(ctx, userID, roomID); err != nil {
		return nil, err
	}

	if err := validation.ValidateMessageText(text); err != nil {
		return nil, validationError(err)
	}

	// История собирается до записи нового сообщения, иначе при HistoryFromStore оно попадет в нее дважды
	prompt, err := c.assembler.Assemble(ctx, roomID, history, text)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.store(ctx, roomID, text, models.SenderUser)
	if err != nil {
		return nil, err
	}

	reply, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("completion failed",
			slog.Int64("room_id", roomID),
			slog.Int64("message_id", userMsg.ID),
			slog.String("error", err.Error()))
		return nil, dependencyError(err)
	}

	// пустой ответ не сохраняем: строка сообщения должна содержать текст
	if strings.TrimSpace(reply) == "" {
		c.logger.Error("completion returned empty reply", slog.Int64("room_id", roomID))
		return nil, dependencyError(completion.ErrNoContent)
	}

	botMsg, err := c.store(ctx, roomID, reply, models.SenderBot)
	if err != nil {
		return nil, err
	}

	c.logger.Info("chat turn completed",
		slog.Int64("room_id", roomID),
		slog.Int("prompt_messages", len(prompt)))

	return &SendResult{UserMessage: userMsg, BotMessage: botMsg, Reply: reply}, nil
}

func (c *Chat) store(ctx context.Context, roomID int64, text string, sender models.Sender) (*models.Message, error) {
	msg, err := models.NewMessage(roomID, text, sender, c.now())
	if err != nil {
		return nil, validationError(err)
	}

	if _, err := c.messages.CreateMessage(ctx, msg); err != nil {
		c.logger.Error("failed to store message",
			slog.Int64("room_id", roomID),
			slog.String("sender", string(sender)),
			slog.String("error", err.Error()))
		return nil, persistenceError("store message", err)
	}

	return msg, nil
}
