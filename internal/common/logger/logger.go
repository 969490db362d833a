package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AlibekovAA/crudik/internal/common/constants"
)

type Fields map[string]interface{}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelLabels = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelCritical {
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}
	return levelLabels[l]
}

// ParseLevel accepts level names case-insensitively; unknown names mean info.
func ParseLevel(value string) Level {
	name := strings.ToUpper(strings.TrimSpace(value))
	if name == "WARN" {
		return LevelWarning
	}
	for i, label := range levelLabels {
		if label == name {
			return Level(i)
		}
	}
	return LevelInfo
}

// Logger writes one line per record:
//
//	2024/01/02 15:04:05 [LEVEL] [service] [trace_id=... key=value] file.go:42 message
type Logger struct {
	min     atomic.Int32
	service string

	mu  sync.Mutex
	out io.Writer
}

// New builds a logger that writes to stdout and, when logDir is set, to a
// rotated app.log inside it.
func New(logDir, serviceName, level string) (*Logger, error) {
	if logDir == "" {
		return NewWithWriter(os.Stdout, serviceName, level), nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    constants.LoggerMaxSize,
		MaxBackups: constants.LoggerMaxBackups,
		MaxAge:     constants.LoggerMaxAge,
		Compress:   true,
	}
	return NewWithWriter(io.MultiWriter(os.Stdout, rotated), serviceName, level), nil
}

func NewWithWriter(w io.Writer, serviceName, level string) *Logger {
	l := &Logger{service: serviceName, out: w}
	l.min.Store(int32(ParseLevel(level)))
	return l
}

func (l *Logger) SetLevel(level Level) { l.min.Store(int32(level)) }

func (l *Logger) ShouldLog(level Level) bool { return int32(level) >= l.min.Load() }

// WithFields binds request-scoped fields; the trace id is read from ctx.
func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{logger: l, ctx: ctx, fields: fields}
}

func (l *Logger) bare() *Entry { return &Entry{logger: l, ctx: context.Background()} }

func (l *Logger) Debug(msg string)    { l.bare().write(LevelDebug, msg) }
func (l *Logger) Info(msg string)     { l.bare().write(LevelInfo, msg) }
func (l *Logger) Warn(msg string)     { l.bare().write(LevelWarning, msg) }
func (l *Logger) Error(msg string)    { l.bare().write(LevelError, msg) }
func (l *Logger) Critical(msg string) { l.bare().write(LevelCritical, msg) }

func (l *Logger) Debugf(format string, args ...any) {
	l.bare().write(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.bare().write(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.bare().write(LevelWarning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.bare().write(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.bare().write(LevelCritical, fmt.Sprintf(format, args...))
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.bare().write(LevelCritical, fmt.Sprintf(format, args...))
	os.Exit(1)
}

type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (e *Entry) Debug(msg string)    { e.write(LevelDebug, msg) }
func (e *Entry) Info(msg string)     { e.write(LevelInfo, msg) }
func (e *Entry) Warn(msg string)     { e.write(LevelWarning, msg) }
func (e *Entry) Error(msg string)    { e.write(LevelError, msg) }
func (e *Entry) Critical(msg string) { e.write(LevelCritical, msg) }

func (e *Entry) Debugf(format string, args ...any) {
	e.write(LevelDebug, fmt.Sprintf(format, args...))
}

func (e *Entry) Infof(format string, args ...any) {
	e.write(LevelInfo, fmt.Sprintf(format, args...))
}

func (e *Entry) Warnf(format string, args ...any) {
	e.write(LevelWarning, fmt.Sprintf(format, args...))
}

func (e *Entry) Errorf(format string, args ...any) {
	e.write(LevelError, fmt.Sprintf(format, args...))
}

func (e *Entry) Criticalf(format string, args ...any) {
	e.write(LevelCritical, fmt.Sprintf(format, args...))
}

// write must be called directly from an exported logging method so the
// reported call site is the caller of that method.
func (e *Entry) write(level Level, msg string) {
	l := e.logger
	if !l.ShouldLog(level) {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteByte(']')
	if l.service != "" {
		b.WriteString(" [")
		b.WriteString(l.service)
		b.WriteByte(']')
	}
	e.appendFields(&b)
	b.WriteByte(' ')
	b.WriteString(callSite(3))
	b.WriteByte(' ')
	b.WriteString(msg)
	b.WriteByte('\n')

	l.mu.Lock()
	_, _ = io.WriteString(l.out, b.String())
	l.mu.Unlock()
}

// appendFields renders " [trace_id=... k=v]" with keys sorted; nothing when
// there is neither a trace id nor a field.
func (e *Entry) appendFields(b *strings.Builder) {
	traceID := TraceIDFromContext(e.ctx)
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		if k != "trace_id" {
			keys = append(keys, k)
		}
	}
	if traceID == "" && len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	b.WriteString(" [")
	sep := ""
	if traceID != "" {
		b.WriteString("trace_id=")
		b.WriteString(traceID)
		sep = " "
	}
	for _, k := range keys {
		b.WriteString(sep)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(e.fields[k]))
		sep = " "
	}
	b.WriteByte(']')
}

// formatValue quotes values that would otherwise break key=value parsing.
func formatValue(v any) string {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprintf("%v", val)
	}
	if s == "" || strings.ContainsAny(s, " =\"]\n\t") {
		return strconv.Quote(s)
	}
	return s
}

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown:0"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// TraceIDFromContext returns the request trace id stored by the tracing
// middleware, or an empty string.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(constants.TraceIDKey).(string)
	return traceID
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, constants.TraceIDKey, traceID)
}
