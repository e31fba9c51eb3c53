// Package logger provides a simple file-backed logger for the watcher.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger appends timestamped lines to vibertime.log in the data
// directory. Debug lines are dropped unless debug mode is on.
type FileLogger struct {
	mu    sync.Mutex
	file  *os.File
	debug bool
}

// NewFileLogger opens (or creates) the log file. If the file cannot be
// opened, logging silently becomes a no-op; the watcher must not die for
// want of a log.
func NewFileLogger(dataDir string, debug bool) *FileLogger {
	_ = os.MkdirAll(dataDir, 0o755)
	f, err := os.OpenFile(filepath.Join(dataDir, "vibertime.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		f = nil
	}
	return &FileLogger{file: f, debug: debug}
}

// Debug writes a debug line when debug mode is on.
func (l *FileLogger) Debug(message string) {
	if !l.debug {
		return
	}
	l.write("DEBUG", message)
}

// Error writes an error line.
func (l *FileLogger) Error(message string) {
	l.write("ERROR", message)
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *FileLogger) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	fmt.Fprintf(l.file, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, message)
}

// Nop is a logger that discards everything. Used in tests and as a
// fallback.
type Nop struct{}

func (Nop) Debug(string) {}
func (Nop) Error(string) {}
