package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotInitialized = errors.New("not initialized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrUnavailable    = errors.New("unavailable")

	// ErrNoBoardContext is raised when the drag coordinator is used without
	// a mounted board.
	ErrNoBoardContext = errors.New("drag coordinator used outside a mounted board")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "list", "board", "settings"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError indicates a resource already exists.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ConflictError indicates the request was computed from state the server
// no longer holds, e.g. a move whose origin list is out of date.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotInitializedError indicates tack isn't set up in the directory tree.
type NotInitializedError struct {
	Path string
}

func (e *NotInitializedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tack not initialized in %s (run 'tack init')", e.Path)
	}
	return "tack not initialized (run 'tack init')"
}

func (e *NotInitializedError) Unwrap() error {
	return ErrNotInitialized
}

// PersistError is returned by the HTTP client when the server rejects or
// fails a request. It unwraps to the sentinel matching the status code so
// callers can use the same predicates on both sides of the wire.
type PersistError struct {
	Op      string // "reorder card", "fetch cards", ...
	Status  int    // 0 when the request never got a response
	Message string
	Err     error // transport error, if any
}

func (e *PersistError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *PersistError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest:
		return ErrInvalidInput
	default:
		return ErrUnavailable
	}
}

// Helper constructors for common cases

func CardNotFound(id string) error {
	return &NotFoundError{Resource: "card", ID: id}
}

func BoardNotFound(name string) error {
	return &NotFoundError{Resource: "board", ID: name}
}

func ListNotFound(idOrTitle, board string) error {
	return &NotFoundError{Resource: "list", ID: fmt.Sprintf("%s (in board %s)", idOrTitle, board)}
}

func BoardAlreadyExists(name string) error {
	return &AlreadyExistsError{Resource: "board", ID: name}
}

func ListAlreadyExists(title, board string) error {
	return &AlreadyExistsError{Resource: "list", ID: fmt.Sprintf("%s (in board %s)", title, board)}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StaleMove reports a card move whose origin list doesn't match the server.
func StaleMove(cardID, claimed, actual string) error {
	return &ConflictError{
		Message: fmt.Sprintf("card %s is in list %s, not %s", cardID, actual, claimed),
	}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
