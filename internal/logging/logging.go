package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"scrap-rally/internal/config"
)

var sink io.Writer = os.Stdout

// Init configures the global zerolog logger from LogConfig. With a file
// configured, output goes to a size-capped log file instead of stdout.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	sink = os.Stdout
	if cfg.File != "" {
		w, err := newCapWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		sink = w
	}
	output := sink
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: sink}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer exposes the raw log sink for the request-log slog handler, so
// HTTP access lines land in the same file as application logs.
func Writer() io.Writer {
	return sink
}
