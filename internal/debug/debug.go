package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/ontomatch/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode suppresses all debug output (set by main for machine-readable runs)
var QuietMode = false

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugFile holds the open file handle if debug output goes to a file
var debugFile *os.File

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// logger formats every debug line; its output follows debugOutput
var logger = newLogger(io.Discard)

// discard receives entries when debug output is disabled
var discard = newLogger(io.Discard)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	return l
}

// SetQuietMode enables quiet mode which suppresses all debug output
func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
	if w == nil {
		logger.SetOutput(io.Discard)
		return
	}
	logger.SetOutput(w)
}

// InitDebugLogFile initializes debug logging to a file.
// Returns the path to the log file, or an error if initialization fails.
// Call CloseDebugLog when done to ensure the file is properly closed.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "ontomatch-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	logger.SetOutput(file)
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		logger.SetOutput(io.Discard)
		return err
	}
	return nil
}

// IsDebugEnabled returns true if debug mode is enabled and we're not in quiet mode
func IsDebugEnabled() bool {
	if QuietMode {
		return false
	}

	// Check build flag first
	if EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// getDebugWriter returns the writer for debug output, or nil if none is configured
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log provides structured debug logging with component names
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() || getDebugWriter() == nil {
		return
	}
	logger.WithField("component", component).Debugf(format, args...)
}

// WithFields returns a component-scoped entry carrying fields. When debug output is
// disabled the entry writes nowhere, so callers never need to check first.
func WithFields(component string, fields logrus.Fields) *logrus.Entry {
	if !IsDebugEnabled() || getDebugWriter() == nil {
		return discard.WithFields(fields).WithField("component", component)
	}
	return logger.WithFields(fields).WithField("component", component)
}

// LogPipeline provides debug logging specifically for orchestration stages
func LogPipeline(format string, args ...interface{}) {
	Log("PIPELINE", format, args...)
}

// LogMatch provides debug logging specifically for matcher internals
func LogMatch(format string, args ...interface{}) {
	Log("MATCH", format, args...)
}

// LogFilter provides debug logging specifically for selection and repair
func LogFilter(format string, args ...interface{}) {
	Log("FILTER", format, args...)
}

// Fatal outputs a catastrophic error message to the debug log and returns a fatal error.
// Callers decide whether to exit.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if !QuietMode && getDebugWriter() != nil {
		logger.Error("[FATAL] " + msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}
