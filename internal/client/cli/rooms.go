package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iudanet/gophchat/internal/client/storage"
	"github.com/iudanet/gophchat/pkg/api"
)

func (c *Cli) runRooms(ctx context.Context) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	rooms, err := c.apiClient.ListRooms(ctx, 0, 0)
	if err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Println("=== Rooms ===")
	c.io.Println()

	if len(rooms) == 0 {
		c.io.Println("No rooms found.")
		c.io.Println("Run 'gophchat room-create' to start a chat.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUPDATED")
	for _, r := range rooms {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.UpdatedAt.Local().Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to print rooms: %w", err)
	}

	c.io.Println()
	c.io.Printf("Total: %d room(s)\n", len(rooms))
	return nil
}

func (c *Cli) runRoomCreate(ctx context.Context, args []string) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	room, err := c.apiClient.CreateRoom(ctx, strings.Join(args, " "))
	if err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Printf("✓ Room created: #%d %s\n", room.ID, room.Name)
	return nil
}

func (c *Cli) runRoomShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: room-show ROOM_ID")
	}
	roomID, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	details, err := c.apiClient.GetRoom(ctx, roomID, 0, 0)
	if err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Printf("=== #%d %s ===\n", details.Room.ID, details.Room.Name)
	c.io.Println()

	if len(details.Messages) == 0 {
		c.io.Println("No messages yet.")
	}
	for _, m := range details.Messages {
		c.io.Printf("[%d] %s %s: %s\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), senderLabel(m.Sender), m.Text)
	}

	// Запоминаем хвост переписки, чтобы send отправил его как history
	if err := c.store.ReplaceHistory(ctx, roomID, turnsFromMessages(details.Messages)); err != nil {
		return fmt.Errorf("failed to cache history: %w", err)
	}
	return nil
}

func (c *Cli) runRoomRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: room-rename ROOM_ID NAME")
	}
	roomID, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	room, err := c.apiClient.RenameRoom(ctx, roomID, strings.Join(args[1:], " "))
	if err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Printf("✓ Room renamed: #%d %s\n", room.ID, room.Name)
	return nil
}

func (c *Cli) runRoomDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: room-delete ROOM_ID")
	}
	roomID, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	if err := c.apiClient.DeleteRoom(ctx, roomID); err != nil {
		return c.serverError(ctx, err)
	}
	if err := c.store.DeleteHistory(ctx, roomID); err != nil {
		return fmt.Errorf("failed to drop cached history: %w", err)
	}

	c.io.Printf("✓ Room #%d deleted\n", roomID)
	return nil
}

func (c *Cli) runMessageDelete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: message-delete ROOM_ID MESSAGE_ID")
	}
	roomID, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	messageID, err := parseID(args[1], "message")
	if err != nil {
		return err
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	if err := c.apiClient.DeleteMessage(ctx, roomID, messageID); err != nil {
		return c.serverError(ctx, err)
	}

	c.io.Printf("✓ Message #%d deleted\n", messageID)
	c.io.Println("Run 'gophchat room-show' to refresh the cached history.")
	return nil
}

// turnsFromMessages переводит сообщения комнаты в реплики completion API
func turnsFromMessages(messages []api.Message) []storage.Turn {
	turns := make([]storage.Turn, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Sender == "bot" {
			role = "assistant"
		}
		turns = append(turns, storage.Turn{Role: role, Content: m.Text})
	}
	return turns
}

func senderLabel(sender string) string {
	if sender == "bot" {
		return "Bot"
	}
	return "You"
}
