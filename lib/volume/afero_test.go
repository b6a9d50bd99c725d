package volume

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, v IVolume, path, content string) {
	t.Helper()
	f, err := v.Open(path, ModeWrite)
	require.NoError(t, err)
	n, err := f.Write([]byte(content))
	require.NoError(t, err)
	require.Equal(t, len(content), n)
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, v IVolume, path string) string {
	t.Helper()
	f, err := v.Open(path, ModeRead)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

func exists(t *testing.T, v IVolume, path string) bool {
	t.Helper()
	ok, err := v.Exists(path)
	require.NoError(t, err)
	return ok
}

func TestMountLifecycle(t *testing.T) {
	v := NewMemVolume(Options{})

	_, err := v.Exists("/config.json")
	assert.ErrorIs(t, err, ErrNotMounted)
	_, err = v.Open("/config.json", ModeRead)
	assert.ErrorIs(t, err, ErrNotMounted)
	assert.ErrorIs(t, v.Unmount(), ErrNotMounted)

	require.NoError(t, v.Mount())
	require.NoError(t, v.Mount(), "mounting twice is a no-op")

	assert.False(t, exists(t, v, "/config.json"))
	writeFile(t, v, "/config.json", "{}")
	assert.True(t, exists(t, v, "/config.json"))

	require.NoError(t, v.Unmount())
	_, err = v.Exists("/config.json")
	assert.ErrorIs(t, err, ErrNotMounted)
	_, err = v.Open("/config.json", ModeWrite)
	assert.ErrorIs(t, err, ErrNotMounted)

	// content survives a remount
	require.NoError(t, v.Mount())
	assert.Equal(t, "{}", readFile(t, v, "/config.json"))
}

func TestWriteTruncates(t *testing.T) {
	v := NewMemVolume(Options{})
	require.NoError(t, v.Mount())

	writeFile(t, v, "/config.json", `{"long":"value"}`)
	writeFile(t, v, "/config.json", "{}")
	assert.Equal(t, "{}", readFile(t, v, "/config.json"))
}

func TestOpenMissingFile(t *testing.T) {
	v := NewMemVolume(Options{})
	require.NoError(t, v.Mount())

	_, err := v.Open("/missing.json", ModeRead)
	assert.Error(t, err)
	_, err = v.Open("/config.json", OpenMode(42))
	assert.Error(t, err)
}

func TestAtomicWrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := NewAferoVolume(fs, Options{AtomicWrites: true})
	require.NoError(t, v.Mount())

	writeFile(t, v, "/config.json", `{"a":1}`)
	assert.Equal(t, `{"a":1}`, readFile(t, v, "/config.json"))

	// while the handle is open only the temporary file changes
	f, err := v.Open("/config.json", ModeWrite)
	require.NoError(t, err)
	_, err = f.Write([]byte(`{"a":2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, readFile(t, v, "/config.json"))
	require.NoError(t, f.Close())

	assert.Equal(t, `{"a":2}`, readFile(t, v, "/config.json"))
	tmpExists, err := afero.Exists(fs, "/config.json"+tmpSuffix)
	require.NoError(t, err)
	assert.False(t, tmpExists, "temporary file must be renamed away")

	// an empty write leaves the target untouched
	f, err = v.Open("/config.json", ModeWrite)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, `{"a":2}`, readFile(t, v, "/config.json"))
}

func TestReadOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.json", []byte(`{"a":1}`), 0o644))

	v := NewAferoVolume(fs, Options{ReadOnly: true})
	require.NoError(t, v.Mount())

	assert.Equal(t, `{"a":1}`, readFile(t, v, "/config.json"))
	_, err := v.Open("/config.json", ModeWrite)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestOsVolume(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	v := NewOsVolume(dir, Options{AtomicWrites: true})

	require.NoError(t, v.Mount(), "mount creates the data directory")
	writeFile(t, v, "/config.json", `{"name":"bob"}`)

	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"bob"}`, string(b))
}

func TestOsVolumeMountFailure(t *testing.T) {
	// the data directory path is occupied by a regular file
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	v := NewOsVolume(file, Options{})
	assert.Error(t, v.Mount())
	_, err := v.Exists("/config.json")
	assert.ErrorIs(t, err, ErrNotMounted)
}

// statFailFs fails every Stat with a permission error
type statFailFs struct {
	afero.Fs
}

func (fs statFailFs) Stat(name string) (os.FileInfo, error) {
	return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
}

func TestExistsReportsStatErrors(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/config.json", []byte("{}"), 0o644))

	v := &aferoVolume{fs: statFailFs{Fs: mem}, mounted: true}
	ok, err := v.Exists("/config.json")
	assert.False(t, ok)
	assert.ErrorIs(t, err, os.ErrPermission)
}
