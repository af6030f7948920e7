// Package log provides the lazystatus debug log.
//
// Messages are buffered until a destination is chosen: SetFile flushes the
// buffer into a rotating log file, SetFile("") discards it.
package log

import (
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, in megabytes and number of old files kept.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
)

// DebugLogger handles debug logging to a rotating file and/or buffering.
// It implements io.Writer to be compatible with standard log.Logger.
type DebugLogger struct {
	mu         sync.Mutex
	out        io.WriteCloser
	buffer     []byte
	discard    bool
	maxSizeMB  int
	maxBackups int
}

var (
	globalDebugLogger = &DebugLogger{maxSizeMB: DefaultMaxSizeMB, maxBackups: DefaultMaxBackups}
	stdLogger         = log.New(globalDebugLogger, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}
	if l.out != nil {
		return l.out.Write(p)
	}

	// p may be reused by the caller
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

// SetRotation configures the rotation applied by the next SetFile call.
// Non-positive values keep the defaults.
func SetRotation(maxSizeMB, maxBackups int) {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.maxSizeMB = DefaultMaxSizeMB
	if maxSizeMB > 0 {
		globalDebugLogger.maxSizeMB = maxSizeMB
	}
	globalDebugLogger.maxBackups = DefaultMaxBackups
	if maxBackups > 0 {
		globalDebugLogger.maxBackups = maxBackups
	}
}

// SetFile sets the debug log file path. If path is empty, buffered and
// future messages are discarded.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.out != nil {
		_ = globalDebugLogger.out.Close()
		globalDebugLogger.out = nil
	}

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	// lumberjack opens lazily, probe the path so failures surface here.
	probe, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}
	_ = probe.Close()

	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    globalDebugLogger.maxSizeMB,
		MaxBackups: globalDebugLogger.maxBackups,
	}

	if len(globalDebugLogger.buffer) > 0 {
		if _, err := out.Write(globalDebugLogger.buffer); err != nil {
			_ = out.Close()
			globalDebugLogger.discard = true
			globalDebugLogger.buffer = nil
			return err
		}
		globalDebugLogger.buffer = nil
	}

	globalDebugLogger.out = out
	globalDebugLogger.discard = false
	return nil
}

// Printf writes a formatted debug message via the standard logger.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message via the standard logger.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.out == nil {
		return nil
	}

	err := globalDebugLogger.out.Close()
	globalDebugLogger.out = nil
	return err
}
