package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/gophchat/internal/client/storage"
	"github.com/iudanet/gophchat/pkg/api"
)

func (c *Cli) runSend(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: send ROOM_ID TEXT")
	}
	roomID, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("message cannot be empty")
	}

	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	turns, err := c.store.GetHistory(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	history := make([]api.HistoryItem, 0, len(turns))
	for _, t := range turns {
		history = append(history, api.HistoryItem{Role: t.Role, Content: t.Content})
	}

	resp, err := c.apiClient.Send(ctx, api.ChatRequest{RoomID: roomID, Message: text, History: history})
	if err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Printf("Bot: %s\n", resp.Response)

	if err := c.store.AppendHistory(ctx, roomID,
		storage.Turn{Role: "user", Content: text},
		storage.Turn{Role: "assistant", Content: resp.Response},
	); err != nil {
		return fmt.Errorf("failed to cache history: %w", err)
	}
	return nil
}
