package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/gophchat/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", resp.User.Email)
	if exp := tokenExpiry(resp.Token); exp > 0 {
		c.io.Printf("Session expires: %s\n", time.Unix(exp, 0).Format(time.RFC3339))
	}

	return nil
}
