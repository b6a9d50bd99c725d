// Package common contains the pieces shared by the cli, the server and the
// library packages: the configuration structs and the logger setup.
//
// Logging goes through the logger facade of dragonboat (logger.GetLogger).
// InitLoggers installs a factory whose loggers write to stderr through zap.
package common
