package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"strings"
	"sync"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// tinycfgLogger implements the ILogger interface and writes through a zap core
type tinycfgLogger struct {
	name  string
	level logger.LogLevel
	sink  *zap.SugaredLogger
}

func (l *tinycfgLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *tinycfgLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.sink.Debugf(l.format(format), args...)
	}
}

func (l *tinycfgLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.sink.Infof(l.format(format), args...)
	}
}

func (l *tinycfgLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.sink.Warnf(l.format(format), args...)
	}
}

func (l *tinycfgLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.sink.Errorf(l.format(format), args...)
	}
}

func (l *tinycfgLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// format prefixes the message with the package name
func (l *tinycfgLogger) format(format string) string {
	return fmt.Sprintf("%-8s | %s", l.name, format)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

var (
	sinkOnce sync.Once
	sink     *zap.Logger
)

// zapSink returns the process wide zap logger. It writes human readable lines to
// stderr so the stdout of the cli only carries command output. Filtering happens
// in tinycfgLogger, the core itself accepts every level.
func zapSink() *zap.Logger {
	sinkOnce.Do(func() {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.ConsoleSeparator = " | "

		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			zapcore.DebugLevel,
		)
		sink = zap.New(core)
	})
	return sink
}

// CreateLogger implements the logger.Factory interface
func CreateLogger(pkgName string) logger.ILogger {
	return &tinycfgLogger{
		name:  pkgName,
		level: logger.INFO,
		sink:  zapSink().Sugar(),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// loggerNames are the packages that obtain a logger via logger.GetLogger
var loggerNames = []string{"store", "volume", "server", "cli"}

var factoryOnce sync.Once

// InitLoggers installs the custom logger factory and sets the level of all loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// Set as the global logger factory for Dragonboat
	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = zapSink().Sync()
}
