package common

import (
	"fmt"
	"strings"
)

// Defaults shared by the cli and the server
const (
	DefaultFileName         = "/config.json"
	DefaultMaxDocumentBytes = 2048
	DefaultDataDir          = "data"
	DefaultEndpoint         = "0.0.0.0:8080"
)

// --------------------------------------------------------------------------
// Store configuration struct
// --------------------------------------------------------------------------

// StoreConfig holds everything needed to open a configuration store
type StoreConfig struct {
	// DataDir is the directory the volume is rooted at
	DataDir string
	// FileName is the path of the document inside the volume
	FileName string
	// MaxDocumentBytes bounds the serialized document on writes
	MaxDocumentBytes int
	// AtomicWrites enables temp-file-then-rename writes
	AtomicWrites bool
	// LogLevel is one of debug, info, warn, error
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *StoreConfig) String() string {
	var sb strings.Builder
	c.write(&sb)
	return sb.String()
}

func (c *StoreConfig) write(sb *strings.Builder) {
	addSection(sb, "Store")
	addField(sb, "Data Directory", c.DataDir)
	addField(sb, "File", c.FileName)
	addField(sb, "Max Document Size", fmt.Sprintf("%d bytes", c.MaxDocumentBytes))
	addField(sb, "Atomic Writes", fmt.Sprintf("%t", c.AtomicWrites))

	addSection(sb, "Logging")
	addField(sb, "Log Level", c.LogLevel)
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds the configuration of the http admin server
type ServerConfig struct {
	Store StoreConfig
	// Endpoint is the address the http api listens on
	Endpoint string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder
	addSection(&sb, "HTTP Server")
	addField(&sb, "Endpoint", c.Endpoint)
	c.Store.write(&sb)
	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func addSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
}

func addField(sb *strings.Builder, name, value string) {
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
}
