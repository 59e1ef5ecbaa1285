// FILE: lixenwraith/iniconf/cmd/iniconf/main.go
// Command iniconf inspects and edits INI configuration files.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger writes human readable events to stderr
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
