// Package log configures the process-wide structured logger.
//
// All packages obtain child loggers through WithComponent so every line
// carries a component field (rapi, reconcile, cli).
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the root logger. Init must be called before use; the zero
// value writes nothing.
var Logger zerolog.Logger

// Config holds logging configuration.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values fall back
	// to info.
	Level string

	// JSONOutput selects machine-readable JSON lines instead of the
	// console writer.
	JSONOutput bool

	// Output defaults to stderr so command output stays parseable.
	Output io.Writer
}

// Init initializes the root logger.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithInstance returns a child logger tagged with the instance name.
func WithInstance(name string) zerolog.Logger {
	return Logger.With().Str("instance", name).Logger()
}
