package store

import (
	"github.com/ValentinKolb/tinycfg/lib/document"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Scalar is the closed set of Go types the generic helpers accept.
type Scalar = document.Scalar

// IConfigStore is the interface for interacting with a persistent configuration store.
//
// No method returns a Go error. Write operations report success as a bool,
// read operations fall back to a caller supplied value. Every call overwrites
// the last-error register, which is read with LastError, LastErrorMessage or Err
// directly after the call of interest.
//
// Implementations are not safe for concurrent use.
type IConfigStore interface {
	// Start mounts the volume and creates an empty document if none exists.
	// It fails with KindAlreadyRunning if the store is already started.
	Start() bool
	// Stop unmounts the volume. It fails with KindNotRunning if the store is not started.
	Stop() bool
	// Reset overwrites the document with an empty one. It does not check
	// whether the store is started.
	Reset() bool

	// SetMaxDocumentBytes sets the upper bound for the serialized document.
	// Values outside [MinDocumentBytes, MaxDocumentBytesLimit] are rejected and
	// the previous bound is kept. The bound only applies to future writes.
	SetMaxDocumentBytes(n int) bool
	// MaxDocumentBytes returns the current bound.
	MaxDocumentBytes() int

	// Set stores value under key.
	Set(key string, value document.Value) bool
	// SetInt stores an integer under key.
	SetInt(key string, value int64) bool
	// SetFloat stores a floating-point number under key.
	SetFloat(key string, value float64) bool
	// SetString stores a string under key.
	SetString(key string, value string) bool

	// GetInt returns the value of key as integer, or fallback.
	GetInt(key string, fallback int64) int64
	// GetFloat returns the value of key as floating-point number, or fallback.
	GetFloat(key string, fallback float64) float64
	// GetString returns the value of key as string, or fallback.
	GetString(key string, fallback string) string
	// GetAll returns the serialized document, or fallback if it cannot be loaded.
	GetAll(fallback string) string
	// GetAllDocument returns the parsed document, or an empty document if it cannot be loaded.
	GetAllDocument() document.Document

	// DeleteKey removes key. It returns true only if the key was present and
	// the document was saved. An absent key is not an error.
	DeleteKey(key string) bool
	// DeleteKeys removes all given keys in a single write. It returns true if at
	// least one key was present and the document was saved.
	DeleteKeys(keys ...string) bool

	// LastError returns the kind of the error left by the last operation.
	LastError() ErrorKind
	// LastErrorMessage returns a human-readable description of LastError.
	LastErrorMessage() string
	// Err returns the error left by the last operation including its cause, or nil.
	Err() error
}

// Size bounds accepted by IConfigStore.SetMaxDocumentBytes
const (
	// MinDocumentBytes is the smallest document that holds a key-value pair plus braces
	MinDocumentBytes = 9
	// MaxDocumentBytesLimit caps memory use on constrained devices
	MaxDocumentBytesLimit = 4096
)

// --------------------------------------------------------------------------
// Generic helpers
// --------------------------------------------------------------------------

// Set stores any Scalar under key.
func Set[T Scalar](s IConfigStore, key string, value T) bool {
	return s.Set(key, document.ValueOf(value))
}
