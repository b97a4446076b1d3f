// Package debuglog writes human-readable debug traces to a file when a
// session runs with --debug. Grounded on the teacher's idiom of writing
// gated diagnostic output via fmt.Fprintf(os.Stderr, ...) (see
// internal/llm/anthropic.go's "DEBUG: Anthropic Stream Request" blocks) —
// adapted here to append to a file instead of stderr, since stderr is not
// available once the alternate screen owns the terminal.
package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger appends timestamped lines to a single file. The zero value is a
// no-op logger (Enabled() is false) so call sites don't need nil checks.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates (or appends to) the log file at path. An empty path yields
// a disabled Logger.
func Open(path string) (*Logger, error) {
	if path == "" {
		return &Logger{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("debuglog: open %s: %w", path, err)
	}
	return &Logger{file: f}, nil
}

// Enabled reports whether this Logger actually writes anywhere.
func (l *Logger) Enabled() bool {
	return l != nil && l.file != nil
}

// Printf appends one timestamped line. No-op on a disabled Logger.
func (l *Logger) Printf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339Nano), fmt.Sprintf(format, args...))
	_, _ = l.file.WriteString(line)
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if !l.Enabled() {
		return nil
	}
	return l.file.Close()
}
