// ABOUTME: Configures the process-wide charmbracelet logger
// ABOUTME: Diagnostics go to stderr so command output on stdout stays clean
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Init sets the default logger's level and format ("text", "json" or "logfmt").
func Init(level, format string) error {
	return InitWriter(os.Stderr, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var formatter log.Formatter
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return fmt.Errorf("invalid log format %q (use text, json or logfmt)", format)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "bizdash",
	})
	log.SetDefault(logger)
	return nil
}
