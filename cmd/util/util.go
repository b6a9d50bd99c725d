package util

import (
	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/stats"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/ValentinKolb/tinycfg/lib/store/fstore"
	"github.com/ValentinKolb/tinycfg/lib/volume"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the flags needed to open a store to a command
func SetupStoreFlags(cmd *cobra.Command, defaultLogLevel string) {
	key := "data-dir"
	cmd.PersistentFlags().String(key, common.DefaultDataDir, WrapString("Directory the configuration volume is rooted at. It is created if it does not exist"))

	key = "file"
	cmd.PersistentFlags().String(key, common.DefaultFileName, WrapString("Path of the configuration document inside the data directory"))

	key = "max-size"
	cmd.PersistentFlags().Int(key, common.DefaultMaxDocumentBytes, WrapString("Maximum size of the serialized document in bytes (9 - 4096). Writes that would exceed it are rejected"))

	key = "atomic-writes"
	cmd.PersistentFlags().Bool(key, false, WrapString("Write the document to a temporary file and rename it over the old one, so an interrupted write never leaves a corrupt document"))

	key = "log-level"
	cmd.PersistentFlags().String(key, defaultLogLevel, WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("tinycfg")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetStoreConfig reads the store configuration from viper
func GetStoreConfig() common.StoreConfig {
	return common.StoreConfig{
		DataDir:          viper.GetString("data-dir"),
		FileName:         viper.GetString("file"),
		MaxDocumentBytes: viper.GetInt("max-size"),
		AtomicWrites:     viper.GetBool("atomic-writes"),
		LogLevel:         viper.GetString("log-level"),
	}
}

// NewStore creates a stopped store on the local filesystem as described by conf.
// The size bound of conf is not applied, see ApplyMaxSize.
func NewStore(conf common.StoreConfig, recorder stats.IRecorder) store.IConfigStore {
	vol := volume.NewOsVolume(conf.DataDir, volume.Options{AtomicWrites: conf.AtomicWrites})
	return fstore.NewConfigStore(
		vol,
		document.NewJSONCodec(),
		fstore.WithPath(conf.FileName),
		fstore.WithStats(recorder),
	)
}

// ApplyMaxSize sets the size bound of conf on s, returning the store error if it is out of range
func ApplyMaxSize(s store.IConfigStore, conf common.StoreConfig) error {
	if !s.SetMaxDocumentBytes(conf.MaxDocumentBytes) {
		return s.Err()
	}
	return nil
}
