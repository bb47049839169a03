// Package debug provides conditional debug logging for altflow.
//
// Logging is enabled by setting ALTFLOW_DEBUG. Because the interactive UI owns the
// terminal, output goes to the file named by ALTFLOW_DEBUG_LOG when it is set and to
// stderr otherwise:
//
//	ALTFLOW_DEBUG=1 ALTFLOW_DEBUG_LOG=/tmp/altflow.log altflow notes.md
//
// When disabled (default) every function is a no-op.
package debug

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	enabled bool
	logger  *log.Logger
	closer  io.Closer
)

func init() {
	if strings.TrimSpace(os.Getenv("ALTFLOW_DEBUG")) != "" {
		_ = Open(strings.TrimSpace(os.Getenv("ALTFLOW_DEBUG_LOG")))
	}
}

// Open enables logging to path (appending), or to stderr when path is empty.
func Open(path string) error {
	var w io.Writer = os.Stderr
	var c io.Closer
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		w, c = f, f
	}
	SetOutput(w)
	mu.Lock()
	closer = c
	mu.Unlock()
	return nil
}

// SetOutput enables logging to w. A nil writer disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if w == nil {
		enabled = false
		logger = nil
		return
	}
	enabled = true
	logger = log.New(w, "[altflow] ", log.Ltime|log.Lmicroseconds)
}

// Close disables logging and closes the log file, if any.
func Close() {
	SetOutput(nil)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	Log("%s took %v", name, d)
}
