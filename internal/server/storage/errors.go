package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRoomNotFound indicates that room is absent, soft-deleted or owned by another user
	ErrRoomNotFound = errors.New("room not found")

	// ErrMessageNotFound indicates that message was not found
	ErrMessageNotFound = errors.New("message not found")
)
