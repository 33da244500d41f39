package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds the process logger. Console output goes to stderr
// unless another writer is given.
func New(options Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if options.Level != "" {
		parsed, err := zerolog.ParseLevel(options.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", options.Level, err)
		}
		level = parsed
	}

	output := options.Output
	if output == nil {
		output = os.Stderr
	}
	switch options.Format {
	case "", "console":
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", options.Format)
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}
