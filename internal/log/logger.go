// Package log owns the process logger. Components take tagged children of
// it, and request handlers add the request id.
package log

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Config selects the level, sink and service name of the process logger.
type Config struct {
	Level   string
	Output  io.Writer
	Service string
}

var root atomic.Pointer[zerolog.Logger]

// Configure replaces the process logger. An empty or unknown level means info.
func Configure(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	service := cfg.Service
	if service == "" {
		service = "signage"
	}
	l := zerolog.New(out).Level(level).With().Timestamp().Str("service", service).Logger()
	root.Store(&l)
}

func current() zerolog.Logger {
	if l := root.Load(); l != nil {
		return *l
	}
	Configure(Config{})
	return *root.Load()
}

// WithComponent returns a child of the process logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}
