package eeprom

import (
	"io"
	"log/slog"
)

// Options configures a Store.
type Options struct {
	// Logger receives engine events: Debug for appends and cache rebuilds,
	// Info for compaction and recovery, Warn for full resets.
	// Default: a logger that discards everything
	Logger *slog.Logger
}

// DefaultOptions returns options with logging disabled.
func DefaultOptions() *Options {
	return &Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
