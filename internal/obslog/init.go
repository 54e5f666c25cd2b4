package obslog

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for the cmd/ entrypoints:
// RFC3339Nano timestamps, an optional append-mode log file in place of
// stderr, and a parsed level (falling back to info on an empty or
// unrecognised value). Logs default to stderr, never stdout — both
// cmd/fcapply's status output and cmd/fcserve's MCP stdio transport
// need stdout free of anything but their own protocol bytes. The
// standard library logger is redirected too, so a stray log.Print from
// a dependency still lands in the same stream.
func Init(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		} else {
			fmt.Fprintf(os.Stderr, "obslog: failed to open log file %q: %v\n", logPath, err)
		}
	}
	log.Logger = log.Output(w).With().Timestamp().Logger()

	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}
