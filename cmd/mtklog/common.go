package main

import (
	"strconv"

	"github.com/mtklog/btq1300st/internal/logging"
)

// parseSpeed parses a -speed flag value: "auto" (or "") means probe, any
// other value is parsed as a baud rate.
func parseSpeed(s string) (int, error) {
	if s == "" || s == "auto" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseDebugLevel maps the -debug flag's off|error|info|debug values to a
// logging.LogLevel, defaulting to LevelError (matching spec.md §4.11's
// "off" meaning "only report what would abort the run").
func parseDebugLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "off", "":
		return logging.LevelError
	default:
		return logging.LevelError
	}
}
