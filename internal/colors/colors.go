// Package colors provides color output utilities for pushbell.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger mirrors console output into a structured log.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu           sync.RWMutex
	debugEnabled = false
	quiet        = false
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("PUSHBELL_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// SetQuiet suppresses Info and Success output. Errors and warnings are always printed.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the process streams.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

type kind int

const (
	kindError kind = iota
	kindWarning
	kindInfo
	kindSuccess
	kindDebug
)

func emit(k kind, msgs []string) {
	msg := strings.Join(msgs, " ")

	mu.RLock()
	l, dbg, q, out, errOut := logger, debugEnabled, quiet, stdout, stderr
	mu.RUnlock()

	if k == kindDebug && !dbg {
		return
	}

	if l != nil {
		switch k {
		case kindError:
			l.Error(msg)
		case kindWarning:
			l.Warn(msg)
		case kindSuccess:
			l.Info(msg, "type", "success")
		case kindDebug:
			l.Debug(msg)
		default:
			l.Info(msg)
		}
	}

	var err error
	switch k {
	case kindError:
		_, err = fmt.Fprintf(errOut, "%sError:%s %s%s\n", Red, Reset, msg, Reset)
	case kindWarning:
		_, err = fmt.Fprintf(errOut, "%sWarning:%s %s%s\n", Yellow, Reset, msg, Reset)
	case kindDebug:
		_, err = fmt.Fprintf(errOut, "%sDebug:%s %s%s\n", Cyan, Reset, msg, Reset)
	case kindSuccess:
		if q {
			return
		}
		_, err = fmt.Fprintf(out, "%s%s%s %s%s\n", Green, checkmark, Reset, msg, Reset)
	case kindInfo:
		if q {
			return
		}
		_, err = fmt.Fprintf(out, "%s%s%s\n", Blue, msg, Reset)
	}
	if err != nil {
		// Last resort; never recurse into emit.
		fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) { emit(kindError, msgs) }

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) { emit(kindWarning, msgs) }

// Info outputs an informational message to stdout.
func Info(msgs ...string) { emit(kindInfo, msgs) }

// Success outputs a success message to stdout.
func Success(msgs ...string) { emit(kindSuccess, msgs) }

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) { emit(kindDebug, msgs) }
