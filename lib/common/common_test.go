package common

import (
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestInitLoggers(t *testing.T) {
	require.NoError(t, InitLoggers("debug"))
	require.NoError(t, InitLoggers("error"), "re-initialization only changes the level")
	assert.Error(t, InitLoggers("loud"))
}

func TestConfigString(t *testing.T) {
	conf := ServerConfig{
		Endpoint: "127.0.0.1:9000",
		Store: StoreConfig{
			DataDir:          "/var/lib/tinycfg",
			FileName:         DefaultFileName,
			MaxDocumentBytes: DefaultMaxDocumentBytes,
			LogLevel:         "info",
		},
	}

	s := conf.String()
	assert.Contains(t, s, "HTTP SERVER")
	assert.Contains(t, s, "127.0.0.1:9000")
	assert.Contains(t, s, "/var/lib/tinycfg")
	assert.Contains(t, s, "2048 bytes")
}
