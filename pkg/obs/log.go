package obs

import (
	"log/slog"
	"strings"

	"github.com/mama165/sdk-go/logs"
)

// NewLogger returns the service logger for a level name such as DEBUG or
// INFO. An empty level means INFO.
func NewLogger(level string) *slog.Logger {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "" {
		level = "INFO"
	}
	return logs.GetLoggerFromString(level)
}
