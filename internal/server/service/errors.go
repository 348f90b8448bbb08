package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the transport boundary.
type Kind int

const (
	// KindUnknown is never produced on purpose; unclassified errors map to it.
	KindUnknown Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindConflict
	KindDependency
	KindPersistence
	// KindNotFound covers sub-resources of an authorized room (a message id that is not in it)
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	case KindPersistence:
		return "persistence"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified service error. Message is safe to show to the caller;
// Err keeps the internal cause for logs and errors.Is.
type Error struct {
	Err     error
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}

// PublicMessage returns the caller-safe message of err.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "internal server error"
}

// Сообщения, которые видит клиент
const (
	msgInvalidCredentials = "invalid email or password"
	msgForbidden          = "you do not have access to this room"
	msgNoReply            = "could not get a reply"
	msgInternal           = "internal server error"
)

func authenticationError(msg string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: msg, Err: cause}
}

func forbidden(cause error) *Error {
	return &Error{Kind: KindAuthorization, Message: msgForbidden, Err: cause}
}

func validationError(cause error) *Error {
	return &Error{Kind: KindValidation, Message: cause.Error(), Err: cause}
}

func conflictError(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

func dependencyError(cause error) *Error {
	return &Error{Kind: KindDependency, Message: msgNoReply, Err: cause}
}

// persistenceError скрывает детали хранилища от клиента
func persistenceError(op string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: msgInternal, Err: fmt.Errorf("%s: %w", op, cause)}
}

func notFoundError(msg string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: cause}
}
