package errx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// EmptyInputMessage is returned to clients that post an empty chat message.
	EmptyInputMessage = "No message provided"
	// SessionStoreMessage describes failures of the session state store.
	SessionStoreMessage = "session store unavailable"
	// TimeoutMessage is returned when a turn could not start before its deadline.
	TimeoutMessage = "request timed out"
)

var (
	// ErrEmptyInput is raised by adapters, never by the dialogue engine itself.
	ErrEmptyInput = New(errors.New("empty input"), http.StatusBadRequest, EmptyInputMessage)
	// ErrSessionStore marks failures while loading or saving dialogue state.
	ErrSessionStore = New(errors.New("session store"), http.StatusServiceUnavailable, SessionStoreMessage)
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapRedis maps Redis errors to AppError with a consistent status code and message.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	return New(err, http.StatusBadGateway, RedisErrorMessage)
}

// WrapTimeout tags a turn that gave up waiting, keeping the context error in the chain.
func WrapTimeout(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusGatewayTimeout, TimeoutMessage)
}

// WrapSession tags a session store failure so callers can match ErrSessionStore.
func WrapSession(err error) error {
	if err == nil {
		return nil
	}
	return New(err, ErrSessionStore.Status, ErrSessionStore.Message)
}

// Is reports whether the target matches the underlying error or shares
// status and message with this AppError.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) && t != nil && t != e {
		if t.Status == e.Status && t.Message == e.Message {
			return true
		}
	}
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500 when none is attached.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}
