package volume

import (
	"errors"
	"io"
)

var (
	// ErrNotMounted is returned by every file operation on a volume that is not mounted.
	ErrNotMounted = errors.New("volume not mounted")
	// ErrReadOnly is returned when a read-only volume is opened for writing.
	ErrReadOnly = errors.New("volume is read-only")
)

// OpenMode selects how IVolume.Open opens a file.
type OpenMode uint8

const (
	ModeRead  OpenMode = iota // 0: open an existing file for reading
	ModeWrite                 // 1: create or truncate a file for writing
)

func (m OpenMode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "unknown"
	}
}

// File is an open file handle. Handles are never kept across store operations,
// every handle returned by IVolume.Open must be closed by the caller.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// IVolume is the filesystem a configuration document lives on.
// Implementations are not required to be safe for concurrent use.
type IVolume interface {
	// Mount makes the volume available. Mounting a mounted volume is a no-op.
	Mount() error
	// Unmount makes the volume unavailable. It returns ErrNotMounted if the
	// volume was not mounted.
	Unmount() error
	// Exists reports whether path exists. Only a missing file is reported as
	// (false, nil), any other failure to stat path is returned as error.
	// It returns ErrNotMounted while unmounted.
	Exists(path string) (bool, error)
	// Open opens path in the given mode.
	Open(path string, mode OpenMode) (File, error)
}
