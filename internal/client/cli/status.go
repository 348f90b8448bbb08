package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	if health, err := c.apiClient.Health(ctx); err != nil {
		c.io.Printf("Server: %s (unreachable: %v)\n", c.serverURL, err)
	} else {
		c.io.Printf("Server: %s (%s, version %s)\n", c.serverURL, health.Status, health.Version)
	}

	auth, err := c.requireSession(ctx)
	if err != nil {
		if !isNotLoggedIn(err) {
			return fmt.Errorf("failed to check authentication: %w", err)
		}
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'gophchat login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", auth.Email)
	c.io.Printf("User ID: %d\n", auth.UserID)

	if auth.ExpiresAt > 0 {
		expiresAt := time.Unix(auth.ExpiresAt, 0)
		c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
		c.io.Printf("Time remaining: %s\n", expiresAt.Sub(c.now()).Round(time.Second))
	}

	if auth.ServerURL != "" && auth.ServerURL != c.serverURL {
		c.io.Printf("⚠️  Session was created for %s\n", auth.ServerURL)
	}

	return nil
}
