package cfg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/ValentinKolb/tinycfg/lib/store/fstore"
	"github.com/ValentinKolb/tinycfg/lib/volume"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger keeps every formatted line regardless of level
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) SetLevel(logger.LogLevel)                    {}
func (l *recordingLogger) Debugf(format string, args ...interface{})   { l.record(format, args...) }
func (l *recordingLogger) Infof(format string, args ...interface{})    { l.record(format, args...) }
func (l *recordingLogger) Warningf(format string, args ...interface{}) { l.record(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...interface{})   { l.record(format, args...) }
func (l *recordingLogger) Panicf(format string, args ...interface{})   { l.record(format, args...) }

func useStore(t *testing.T, s store.IConfigStore) {
	t.Helper()
	prev := cfgStore
	cfgStore = s
	t.Cleanup(func() { cfgStore = prev })
}

func TestWithStoreStopsAfterFailure(t *testing.T) {
	s := fstore.NewConfigStore(volume.NewMemVolume(volume.Options{}), document.NewJSONCodec())
	require.True(t, s.Start())
	useStore(t, s)

	errCommand := errors.New("command failed")
	run := withStore(func(*cobra.Command, []string) error {
		return errCommand
	})

	err := run(&cobra.Command{}, nil)
	assert.ErrorIs(t, err, errCommand)

	// the store was stopped on the error path
	assert.False(t, s.Stop())
	assert.Equal(t, store.KindNotRunning, s.LastError())
}

func TestWithStoreStopsAfterSuccess(t *testing.T) {
	s := fstore.NewConfigStore(volume.NewMemVolume(volume.Options{}), document.NewJSONCodec())
	require.True(t, s.Start())
	useStore(t, s)

	run := withStore(func(*cobra.Command, []string) error {
		if !cfgStore.SetInt("a", 1) {
			return failed()
		}
		return nil
	})

	require.NoError(t, run(&cobra.Command{}, nil))
	assert.False(t, s.Stop())
	assert.Equal(t, store.KindNotRunning, s.LastError())
}

func TestWithStoreReportsStopFailure(t *testing.T) {
	// never started, so stopping fails
	s := fstore.NewConfigStore(volume.NewMemVolume(volume.Options{}), document.NewJSONCodec())
	useStore(t, s)

	run := withStore(func(*cobra.Command, []string) error { return nil })
	assert.ErrorIs(t, run(&cobra.Command{}, nil), store.ErrNotRunning)
}

func TestOpenStoreLogsConfigVerbatim(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	rec := &recordingLogger{}
	prev := Logger
	Logger = rec
	t.Cleanup(func() { Logger = prev })
	useStore(t, nil)

	dataDir := filepath.Join(t.TempDir(), "100%d")
	viper.Set("data-dir", dataDir)
	viper.Set("file", "/cfg%s.json")
	viper.Set("max-size", 2048)
	viper.Set("log-level", "warn")

	require.NoError(t, openStore(&cobra.Command{Use: "test"}, nil))
	require.NoError(t, closeStore())

	logged := strings.Join(rec.lines, "\n")
	assert.Contains(t, logged, dataDir)
	assert.Contains(t, logged, "/cfg%s.json")
	assert.NotContains(t, logged, "%!")
}
