// Package logger is a minimal, dependency-free event log. Components tag
// every entry with their own name so a tail of the log reads as an
// interleaved trace of CIA/VIC/drive activity without needing per-component
// log files.
package logger

import (
	"fmt"
	"io"
	"sync"
)

type entry struct {
	tag     string
	message string
}

var (
	mu      sync.Mutex
	entries []entry
)

// Log appends a tagged message to the log.
func Log(tag string, message string) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{tag: tag, message: message})
}

// Logf is a convenience wrapper that formats message before logging it.
func Logf(tag string, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write writes every log entry to w, one per line, as "tag: message".
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.message)
	}
}

// Tail writes the last n entries to w. If n is greater than the number of
// entries held, every entry is written.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	for _, e := range entries[start:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.message)
	}
}

// Clear empties the log. Used by tests and by the CLI's "reset" command.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}
