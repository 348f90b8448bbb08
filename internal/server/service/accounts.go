package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/storage"
	"github.com/iudanet/gophchat/internal/validation"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues bearer tokens for a user id
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *models.User
	Token string
}

// Accounts manages registration, login and the caller's own profile
type Accounts struct {
	users  storage.UserStorage
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
	now    func() time.Time
}

// NewAccounts creates the account service
func NewAccounts(users storage.UserStorage, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Accounts {
	return &Accounts{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a user and logs them in.
// Email is trimmed, the password is taken as is.
func (a *Accounts) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, validationError(err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: msgInternal, Err: err}
	}

	user, err := models.NewUser(email, hash, name, a.now())
	if err != nil {
		return nil, validationError(err)
	}

	if _, err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, conflictError("email is already registered", err)
		}
		a.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, persistenceError("create user", err)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: msgInternal, Err: err}
	}

	a.logger.Info("user registered", slog.Int64("user_id", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (a *Accounts) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError(errors.New("email and password are required"))
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, authenticationError(msgInvalidCredentials, err)
		}
		a.logger.Error("failed to load user", slog.String("error", err.Error()))
		return nil, persistenceError("get user", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Warn("login failed", slog.Int64("user_id", user.ID))
		return nil, authenticationError(msgInvalidCredentials, nil)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: msgInternal, Err: err}
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Profile returns the caller's user record
func (a *Accounts) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		// токен валиден, но пользователя уже нет
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, authenticationError("user no longer exists", err)
		}
		return nil, persistenceError("get user", err)
	}
	return user, nil
}

// UpdateName changes the caller's display name
func (a *Accounts) UpdateName(ctx context.Context, userID int64, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, validationError(err)
	}

	if err := a.users.UpdateUserName(ctx, userID, name, a.now()); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, authenticationError("user no longer exists", err)
		}
		return nil, persistenceError("update user", err)
	}

	return a.Profile(ctx, userID)
}

// Delete removes the caller's account with all rooms and messages.
// The password is re-verified right before the cascade.
func (a *Accounts) Delete(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return validationError(errors.New("password is required"))
	}

	user, err := a.Profile(ctx, userID)
	if err != nil {
		return err
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Warn("account deletion rejected", slog.Int64("user_id", userID))
		return authenticationError("invalid password", nil)
	}

	if err := a.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return authenticationError("user no longer exists", err)
		}
		a.logger.Error("failed to delete user",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return persistenceError("delete user", err)
	}

	a.logger.Info("user deleted", slog.Int64("user_id", userID))
	return nil
}
