// Package logging sets up the diagnostic logger.
//
// Diagnostics are separate from the run log: they are zerolog events for
// whoever debugs modloader itself, written to stderr and appended to a file
// in the XDG state directory. Verbosity follows the -v count.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// LevelFor maps a -v count to a zerolog level: warnings by default, then
// info, debug and trace.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// DefaultLogFile is $XDG_STATE_HOME/modloader/modloader.log.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "modloader", "modloader.log")
}

// SetupLogger configures the global logger with the default log file.
func SetupLogger(verbosity int) {
	SetupLoggerWithFile(verbosity, DefaultLogFile())
}

// SetupLoggerWithFile configures the global logger. An empty path disables
// file logging. Calling it again replaces the previous file.
func SetupLoggerWithFile(verbosity int, path string) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(LevelFor(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	var fileErr error
	if path != "" {
		logFile, fileErr = openLogFile(path)
		if fileErr == nil {
			writers = append(writers, logFile)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to stderr only")
	}
	log.Debug().Int("verbosity", verbosity).Str("file", path).Msg("Logger ready")
}

// GetLogger returns the global logger tagged with component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// LogOperationStart logs that operation began and returns a func that logs
// its duration.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
