// Package logging provides the leveled text logger used by the composer, the
// loader and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/itchyny/timefmt-go"
)

// Level represents the severity level for logs.
type Level int

const (
	// LevelOff disables all output.
	LevelOff Level = iota - 1
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name. Unknown names yield LevelWarn and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OFF", "NONE":
		return LevelOff, true
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG", "TRACE":
		return LevelDebug, true
	default:
		return LevelWarn, false
	}
}

// LevelFromVerbosity maps a -v count to a level: 0 is off, 1 error, 2 warn,
// 3 info and anything above debug.
func LevelFromVerbosity(n int) Level {
	switch {
	case n <= 0:
		return LevelOff
	case n == 1:
		return LevelError
	case n == 2:
		return LevelWarn
	case n == 3:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Logger is the interface used across the module for logging.
type Logger interface {
	// Debugf, Infof, Warnf, Errorf log formatted messages at respective levels.
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Enabled reports whether messages at level would be written.
	Enabled(level Level) bool

	// With returns a child logger augmented with the provided fields.
	With(fields map[string]any) Logger
}

// DefaultTimeFormat is the strftime layout used for timestamps.
const DefaultTimeFormat = "%Y-%m-%dT%H:%M:%S.%f%z"

// textFormatter emits compact single-line text logs.
// Format: [LEVEL] ts msg key1=val1 key2=val2 ...
type textFormatter struct {
	timeFormat string
}

func (f *textFormatter) format(ts time.Time, level Level, msg string, fields map[string]any) []byte {
	var b strings.Builder
	b.Grow(128)

	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteByte(']')
	b.WriteByte(' ')

	if f.timeFormat != "" {
		b.WriteString(timefmt.Format(ts.UTC(), f.timeFormat))
		b.WriteByte(' ')
	}

	b.WriteString(msg)

	// Sort field keys for deterministic output
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(safeSprint(fields[k]))
		}
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

func safeSprint(v any) string {
	switch t := v.(type) {
	case string:
		// Quote if contains whitespace
		if t == "" || strings.IndexFunc(t, func(r rune) bool { return r <= ' ' }) >= 0 {
			return fmt.Sprintf("%q", t)
		}
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// Options configures New.
type Options struct {
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// TimeFormat is a strftime layout; "" omits timestamps. Use
	// DefaultTimeFormat for the usual layout.
	TimeFormat string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// textLogger is a thread-safe logger implementation supporting With() context.
type textLogger struct {
	out       io.Writer
	level     Level
	formatter *textFormatter
	now       func() time.Time

	// baseFields are the context fields attached to this logger.
	baseFields map[string]any

	// mu serializes writes to the writer.
	mu *sync.Mutex
}

// New creates a text logger. A LevelOff logger is a no-op.
func New(opts Options) Logger {
	if opts.Level <= LevelOff {
		return Nop()
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &textLogger{
		out:        out,
		level:      opts.Level,
		formatter:  &textFormatter{timeFormat: opts.TimeFormat},
		now:        now,
		baseFields: map[string]any{},
		mu:         &sync.Mutex{},
	}
}

func (l *textLogger) Enabled(level Level) bool {
	return level > LevelOff && level <= l.level
}

func (l *textLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	// Shallow copy of base fields to avoid parent mutation
	newFields := make(map[string]any, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &textLogger{
		out:        l.out,
		level:      l.level,
		formatter:  l.formatter,
		now:        l.now,
		baseFields: newFields,
		mu:         l.mu, // share same lock and writer
	}
}

func (l *textLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *textLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *textLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *textLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *textLogger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := l.formatter.format(l.now(), level, msg, l.baseFields)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

// nopLogger discards all output.
type nopLogger struct{}

func (nopLogger) Enabled(Level) bool           { return false }
func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(string, ...any)        {}
func (l nopLogger) With(map[string]any) Logger { return l }

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}
