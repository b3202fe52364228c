package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel maps a CONNECTOR_LOG_LEVEL value to a zerolog level.
// Python style names (WARNING, CRITICAL) are accepted.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a JSON logger on stderr tagged with the connector name.
func New(level zerolog.Level, tags map[string]string) zerolog.Logger {
	return newLogger(os.Stderr, level, tags)
}

func newLogger(w io.Writer, level zerolog.Level, tags map[string]string) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()
	for k, v := range tags {
		ctx = ctx.Str(k, v)
	}
	return ctx.Logger().Level(level)
}
