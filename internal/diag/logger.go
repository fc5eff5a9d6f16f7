// Package diag prints leveled diagnostics for the command line tools.
// All diagnostics go to one writer (normally stderr); generated layout
// files are the only other output.
package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Level of a diagnostic line
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger writes "librarian: LEVEL: message" lines.
// Info lines are only written in verbose mode. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	prefix  string
	verbose bool
	colors  map[Level]*color.Color
	counts  map[Level]int
}

// New creates a logger. Colors follow fatih/color's terminal detection
// and can be turned off with SetColor.
func New(w io.Writer, prefix string, verbose bool) *Logger {
	l := &Logger{
		w:       w,
		prefix:  prefix,
		verbose: verbose,
		colors: map[Level]*color.Color{
			Info:    color.New(color.FgCyan),
			Warning: color.New(color.FgYellow, color.Bold),
			Error:   color.New(color.FgRed, color.Bold),
		},
		counts: make(map[Level]int),
	}
	l.SetColor(!color.NoColor)
	return l
}

// SetColor enables or disables colored level tags
func (l *Logger) SetColor(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Verbose reports whether info lines are written
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[level]++
	if level == Info && !l.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if level == Info {
		fmt.Fprintf(l.w, "%s: %s\n", l.prefix, msg)
		return
	}
	fmt.Fprintf(l.w, "%s: %s: %s\n", l.prefix, l.colors[level].Sprint(level), msg)
}

// Infof logs progress information
func (l *Logger) Infof(format string, args ...any) {
	l.log(Info, format, args...)
}

// Warnf logs a non-fatal problem
func (l *Logger) Warnf(format string, args ...any) {
	l.log(Warning, format, args...)
}

// Errorf logs an error
func (l *Logger) Errorf(format string, args ...any) {
	l.log(Error, format, args...)
}

// Count returns how many lines of a level were logged, including
// suppressed info lines.
func (l *Logger) Count(level Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[level]
}
