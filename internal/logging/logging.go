// ABOUTME: Shared charmbracelet/log setup for the CLI, the store, and the live hub.
// ABOUTME: Logs go to stderr so stdout stays free for command output and MCP stdio.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Setup configures the default logger to write to stderr at level.
func Setup(level string) error {
	return SetupWriter(os.Stderr, level)
}

// SetupWriter configures the default logger to write to w at level.
func SetupWriter(w io.Writer, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
		Prefix:          "ironlog",
	})
	log.SetDefault(logger)
	return nil
}

// ParseLevel accepts debug, info, warn, error and the empty string (warn).
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("unknown log level: %q", level)
	}
}
