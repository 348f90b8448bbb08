package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophchat/internal/validation"
	"github.com/iudanet/gophchat/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	name, err := c.io.ReadInput("Display name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	password, err := c.io.ReadPassword(fmt.Sprintf("Password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	confirmPassword, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Registering user...")

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return err
	}

	// Сервер сразу выдает токен, отдельный login не нужен
	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %d\n", resp.User.ID)
	c.io.Printf("Email: %s\n", resp.User.Email)
	c.io.Println("You are now logged in.")

	return nil
}
