package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runAccountDelete(ctx context.Context) error {
	auth, err := c.requireSession(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Delete Account ===")
	c.io.Printf("This permanently deletes %s with all rooms and messages.\n", auth.Email)

	confirm, err := c.io.ReadInput("Type DELETE to confirm: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.TrimSpace(confirm) != "DELETE" {
		c.io.Println("Aborted.")
		return nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	// 401 здесь означает неверный пароль, а не истекший токен: сессию не трогаем
	if err := c.apiClient.DeleteAccount(ctx, password); err != nil {
		return err
	}

	if err := c.forgetSession(ctx); err != nil {
		return fmt.Errorf("account deleted but failed to clear local session: %w", err)
	}

	c.io.Println("✓ Account deleted.")
	return nil
}
