package services

import "errors"

var (
	// ErrEmptyMessage rejects a turn whose trimmed content is empty.
	ErrEmptyMessage = errors.New("message content cannot be empty")

	// ErrChatNotFound means the chat document is absent, as opposed to the
	// store being unreachable (which surfaces as a wrapped transport error).
	ErrChatNotFound = errors.New("chat not found")

	// ErrUserNotFound means no user (or no email) exists for the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken means a registration collided with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrConflict means a conditional write kept losing against concurrent
	// appends and ran out of retries.
	ErrConflict = errors.New("chat was modified concurrently")
)
