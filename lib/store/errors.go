package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind identifies the cause of a failed store operation.
type ErrorKind uint8

const (
	KindNone            ErrorKind = iota // 0: The last operation succeeded.
	KindNotRunning                       // 1: The store is not started.
	KindAlreadyRunning                   // 2: The store is already started.
	KindMountFailed                      // 3: The volume could not be mounted.
	KindOpenFailed                       // 4: The document could not be opened or read.
	KindCreateFailed                     // 5: The empty document could not be written.
	KindWriteFailed                      // 6: The document could not be written.
	KindParseFailed                      // 7: The persisted document is malformed.
	KindSerializeFailed                  // 8: The document could not be serialized.
	KindSizeTooSmall                     // 9: The requested size bound is below the minimum.
	KindSizeTooLarge                     // 10: A size bound or a document exceeds the maximum.
)

var kindNames = [...]string{
	KindNone:            "none",
	KindNotRunning:      "not_running",
	KindAlreadyRunning:  "already_running",
	KindMountFailed:     "mount_failed",
	KindOpenFailed:      "open_failed",
	KindCreateFailed:    "create_failed",
	KindWriteFailed:     "write_failed",
	KindParseFailed:     "parse_failed",
	KindSerializeFailed: "serialize_failed",
	KindSizeTooSmall:    "size_too_small",
	KindSizeTooLarge:    "size_too_large",
}

var kindMessages = [...]string{
	KindNone:            "No error",
	KindNotRunning:      "Store not running",
	KindAlreadyRunning:  "Store already running",
	KindMountFailed:     "Filesystem initialization failed",
	KindOpenFailed:      "Failed to open configuration file",
	KindCreateFailed:    "Failed to create configuration file",
	KindWriteFailed:     "Failed to write to configuration file",
	KindParseFailed:     "JSON parsing failed",
	KindSerializeFailed: "JSON serialization failed",
	KindSizeTooSmall:    "Configuration file size too small",
	KindSizeTooLarge:    "Configuration file size too large",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Message returns a human-readable description of the kind
func (k ErrorKind) Message() string {
	if int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return "unknown error"
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type held in the last-error register of a store.
// It carries the kind, the operation that failed and the underlying cause.
type Error struct {
	Kind ErrorKind // The error kind
	Op   string    // The failed operation, e.g. "set"
	Err  error     // The underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Message()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("tinycfg: %s: %v", msg, e.Err)
	}
	return "tinycfg: " + msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a new Error with the given kind, operation and cause.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  err,
	}
}

// Sentinels for errors.Is
var (
	ErrNotRunning      = &Error{Kind: KindNotRunning}
	ErrAlreadyRunning  = &Error{Kind: KindAlreadyRunning}
	ErrMountFailed     = &Error{Kind: KindMountFailed}
	ErrOpenFailed      = &Error{Kind: KindOpenFailed}
	ErrCreateFailed    = &Error{Kind: KindCreateFailed}
	ErrWriteFailed     = &Error{Kind: KindWriteFailed}
	ErrParseFailed     = &Error{Kind: KindParseFailed}
	ErrSerializeFailed = &Error{Kind: KindSerializeFailed}
	ErrSizeTooSmall    = &Error{Kind: KindSizeTooSmall}
	ErrSizeTooLarge    = &Error{Kind: KindSizeTooLarge}
)
