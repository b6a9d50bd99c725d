package volume

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"os"
)

var Logger = logger.GetLogger("volume")

// tmpSuffix is appended to the target path while an atomic write is in progress
const tmpSuffix = ".tmp"

// Options configures an afero backed volume
type Options struct {
	// AtomicWrites makes ModeWrite write to a temporary file that replaces the
	// target on Close, so a crash mid-write leaves the previous content intact.
	AtomicWrites bool
	// ReadOnly refuses every write.
	ReadOnly bool
}

// NewAferoVolume creates a volume on top of any afero filesystem.
// The root of fs is treated as the root of the volume.
func NewAferoVolume(fs afero.Fs, opts Options) IVolume {
	if opts.ReadOnly {
		fs = afero.NewReadOnlyFs(fs)
	}
	return &aferoVolume{
		fs:   fs,
		opts: opts,
	}
}

// NewOsVolume creates a volume rooted at dir on the local filesystem.
// The directory is created on Mount if it does not exist.
func NewOsVolume(dir string, opts Options) IVolume {
	return NewAferoVolume(afero.NewBasePathFs(afero.NewOsFs(), dir), opts)
}

// NewMemVolume creates a volume that lives in memory only.
// Content survives Unmount/Mount cycles of the same volume.
func NewMemVolume(opts Options) IVolume {
	return NewAferoVolume(afero.NewMemMapFs(), opts)
}

type aferoVolume struct {
	fs      afero.Fs
	opts    Options
	mounted bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see volume.IVolume)
// --------------------------------------------------------------------------

func (v *aferoVolume) Mount() error {
	if v.mounted {
		return nil
	}
	if !v.opts.ReadOnly {
		if err := v.fs.MkdirAll("/", 0o755); err != nil {
			return fmt.Errorf("mount: %w", err)
		}
	}
	ok, err := afero.DirExists(v.fs, "/")
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if !ok {
		return fmt.Errorf("mount: volume root is not a directory")
	}
	v.mounted = true
	Logger.Debugf("mounted %s volume", v.fs.Name())
	return nil
}

func (v *aferoVolume) Unmount() error {
	if !v.mounted {
		return ErrNotMounted
	}
	v.mounted = false
	Logger.Debugf("unmounted %s volume", v.fs.Name())
	return nil
}

func (v *aferoVolume) Exists(path string) (bool, error) {
	if !v.mounted {
		return false, ErrNotMounted
	}
	// afero.Exists only maps os.IsNotExist to false
	ok, err := afero.Exists(v.fs, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

func (v *aferoVolume) Open(path string, mode OpenMode) (File, error) {
	if !v.mounted {
		return nil, ErrNotMounted
	}

	switch mode {
	case ModeRead:
		return v.fs.Open(path)
	case ModeWrite:
		if v.opts.ReadOnly {
			return nil, fmt.Errorf("open %s: %w", path, ErrReadOnly)
		}
		if !v.opts.AtomicWrites {
			return v.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		}
		tmp := path + tmpSuffix
		f, err := v.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, err
		}
		return &atomicFile{File: f, fs: v.fs, tmp: tmp, target: path}, nil
	default:
		return nil, fmt.Errorf("open %s: invalid mode %d", path, mode)
	}
}

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// atomicFile writes to a temporary file and renames it over the target on Close.
// If nothing was written or a write failed, the temporary file is discarded
// and the target stays untouched.
type atomicFile struct {
	afero.File
	fs       afero.Fs
	tmp      string
	target   string
	written  int
	writeErr error
}

func (f *atomicFile) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	f.written += n
	if err != nil && f.writeErr == nil {
		f.writeErr = err
	}
	return n, err
}

func (f *atomicFile) Close() error {
	err := f.File.Close()
	if err != nil || f.writeErr != nil || f.written == 0 {
		return multierr.Append(err, f.fs.Remove(f.tmp))
	}
	return multierr.Append(err, f.fs.Rename(f.tmp, f.target))
}
