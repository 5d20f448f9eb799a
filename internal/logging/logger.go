package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger writes one JSON object per line. The format-style methods keep the
// printf call sites short; the *w variants attach structured fields.
type Logger struct {
	base *log.Logger
}

func NewLogger(levelStr string) *Logger {
	return NewLoggerWithWriter(levelStr, os.Stderr)
}

func NewLoggerWithWriter(levelStr string, w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		Level:           parseLevel(levelStr),
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
	})
	return &Logger{base: l}
}

func parseLevel(levelStr string) log.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// WithComponent tags every line from the returned logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{base: l.base.With("component", name)}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.base.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.base.Fatal(fmt.Sprintf(format, args...))
}

func (l *Logger) Debugw(msg string, fields map[string]any) {
	l.base.Debug(msg, keyvals(fields)...)
}

func (l *Logger) Infow(msg string, fields map[string]any) {
	l.base.Info(msg, keyvals(fields)...)
}

func (l *Logger) Warnw(msg string, fields map[string]any) {
	l.base.Warn(msg, keyvals(fields)...)
}

func (l *Logger) Errorw(msg string, fields map[string]any) {
	l.base.Error(msg, keyvals(fields)...)
}

func keyvals(fields map[string]any) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, k, v)
	}
	return out
}
