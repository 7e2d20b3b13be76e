// Package logging sets up the structured, leveled logger used by the
// satkit driver (the engine packages do not log), built on
// hashicorp/go-hclog the way the retrieval pack's own agent commands do.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Format selects the logger's encoder.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// Options configures New. The zero value logs at Info level in text format
// to stderr.
type Options struct {
	Level  string // parsed with hclog.LevelFromString; "" defaults to Info
	Format Format
	Output io.Writer // defaults to os.Stderr
}

// New builds the root logger. SATKIT_LOG_LEVEL, when set, overrides
// opts.Level so a batch run can be made more verbose without touching CLI
// flags.
func New(opts Options) hclog.Logger {
	level := opts.Level
	if env := os.Getenv("SATKIT_LOG_LEVEL"); env != "" {
		level = env
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "satkit",
		Level:      hclog.LevelFromString(level),
		Output:     out,
		JSONFormat: opts.Format == JSON,
	})
}

// WithVerbosity raises level by one step per -v occurrence: unset stays at
// the configured default, one -v forces Info, two (-vv) forces Debug.
func WithVerbosity(opts Options, vCount int) Options {
	switch {
	case vCount >= 2:
		opts.Level = "debug"
	case vCount == 1 && opts.Level == "":
		opts.Level = "info"
	}
	return opts
}
