// Package store defines the interface of a persistent key-value configuration
// store together with its error system. Implementations keep a small flat
// document of integer, floating-point and string values that survives restarts.
//
// The package focuses on:
//   - A single interface (IConfigStore) with bool and get-or-default results
//   - A last-error register that tells the caller why the previous call failed
//
// Key Components:
//
//   - IConfigStore Interface: Lifecycle (Start, Stop, Reset), typed setters and
//     getters, whole-document reads and deletions. Write operations return false
//     on failure, read operations return the fallback given by the caller.
//
//   - Error System: Every call leaves an ErrorKind in the register of the store,
//     KindNone on success. Err returns the full *Error with the failed operation
//     and the underlying cause, so callers can use errors.Is with the sentinels
//     (ErrNotRunning, ErrSizeTooLarge, ...) or inspect the cause.
//
//   - Size Bound: The serialized document may not grow beyond the bound set with
//     SetMaxDocumentBytes (default 2048 bytes, valid range 9 to 4096). Writes
//     that would exceed it fail with KindSizeTooLarge and leave the document
//     unchanged. Deleting keys is always allowed.
//
// Implementations:
//
//	- File Store (fstore): Persists the document as a JSON file on a
//	  volume.IVolume. Available in the "github.com/ValentinKolb/tinycfg/lib/store/fstore" package.
//
// The shared conformance suite in "github.com/ValentinKolb/tinycfg/lib/store/testing"
// checks any IConfigStore against the behavior described here.
package store
