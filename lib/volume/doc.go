// Package volume abstracts the filesystem a configuration document is stored on.
//
// An IVolume has an explicit mount state, mirroring block-device filesystems on
// embedded targets: every file operation on an unmounted volume fails. The
// afero based implementation serves the local filesystem (NewOsVolume), memory
// (NewMemVolume, used by tests) and any other afero.Fs (NewAferoVolume).
//
// Writes truncate the target in place by default. With Options.AtomicWrites
// the data goes to "<path>.tmp" first and is renamed over the target on Close.
package volume
