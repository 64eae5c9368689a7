package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"chatpoker/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stdout
	file   *sizeLimitedWriter
)

// Init configures the global zerolog logger. With cfg.File set, records go to
// both stdout and the size-limited file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var stdout io.Writer = os.Stdout
	if cfg.Pretty {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	mu.Lock()
	if file != nil {
		_ = file.Close()
		file = nil
	}
	out := stdout
	raw := io.Writer(os.Stdout)
	var fileErr error
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newSizeLimitedWriter(path, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			file = w
			out = io.MultiWriter(stdout, w)
			raw = io.MultiWriter(os.Stdout, w)
		}
	}
	output = raw
	mu.Unlock()

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log_file_unavailable")
	}
}

// Writer is the raw JSON sink other loggers (the HTTP access log) share with
// zerolog.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// Close flushes and releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = os.Stdout
	return err
}
