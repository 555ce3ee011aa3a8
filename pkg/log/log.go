// Package log provides structured logging for udf-suite.
//
// The logging system supports multiple categories:
//   - Lifecycle: function init and deinit
//   - Row: per-row process, add and clear calls
//   - Boundary: recovered panics and marshaling problems at the C boundary
//   - Install: installer and CLI activity
//   - Host: the in-process SQLite engine used for tests and ad hoc queries
//
// Inside the loaded library the logger runs asynchronously with a bounded
// buffer: a full buffer drops the entry instead of stalling the server's row
// processing thread.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents a logging severity level.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelOff // Disable logging entirely
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// serverLabel is the severity tag used by the database server's error log.
func (l Level) serverLabel() string {
	switch l {
	case LevelDebug, LevelInfo:
		return "Note"
	case LevelWarn:
		return "Warning"
	default:
		return "ERROR"
	}
}

// ParseLevel parses a level string.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "NOTE":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR", "ERR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	case "OFF", "NONE":
		return LevelOff, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Category identifies the logging category.
type Category string

const (
	CategoryLifecycle Category = "lifecycle"
	CategoryRow       Category = "row"
	CategoryBoundary  Category = "boundary"
	CategoryInstall   Category = "install"
	CategoryHost      Category = "host"
)

var allCategories = []Category{
	CategoryLifecycle,
	CategoryRow,
	CategoryBoundary,
	CategoryInstall,
	CategoryHost,
}

// Format specifies the output format.
type Format int

const (
	FormatText   Format = iota // Human-readable text
	FormatJSON                 // Structured JSON
	FormatServer               // "2006-01-02 15:04:05 [Warning] Udf: msg", matches the server error log
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "server", "mysql":
		return FormatServer, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", s)
	}
}

// Entry represents a single log entry.
type Entry struct {
	Time     time.Time              `json:"time"`
	Level    Level                  `json:"level"`
	Category Category               `json:"category"`
	Message  string                 `json:"message"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
	Error    error                  `json:"-"`
	ErrorStr string                 `json:"error,omitempty"`
	Caller   string                 `json:"caller,omitempty"`
}

// Logger is the main logging interface.
type Logger struct {
	mu sync.RWMutex

	levels  map[Category]Level
	outputs map[Category]io.Writer

	format        Format
	includeCaller bool

	asyncEnabled bool
	entryChan    chan *Entry
	wg           sync.WaitGroup
	closed       int32

	entriesLogged  int64
	entriesDropped int64
}

// Config holds logger configuration.
type Config struct {
	DefaultLevel   Level
	CategoryLevels map[Category]Level

	Output io.Writer // os.Stderr if nil
	Format Format

	IncludeCaller bool
	AsyncBuffer   int // 0 = sync logging
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLevel: LevelInfo,
		Output:       os.Stderr,
		Format:       FormatText,
	}
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	l := &Logger{
		levels:        make(map[Category]Level),
		outputs:       make(map[Category]io.Writer),
		format:        cfg.Format,
		includeCaller: cfg.IncludeCaller,
	}

	for _, cat := range allCategories {
		l.levels[cat] = cfg.DefaultLevel
		l.outputs[cat] = cfg.Output
	}

	for cat, level := range cfg.CategoryLevels {
		l.levels[cat] = level
	}

	if cfg.AsyncBuffer > 0 {
		l.asyncEnabled = true
		l.entryChan = make(chan *Entry, cfg.AsyncBuffer)
		l.wg.Add(1)
		go l.asyncWriter()
	}

	return l
}

// SetLevel sets the log level for a category.
func (l *Logger) SetLevel(cat Category, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels[cat] = level
}

// SetOutput sets the output writer for a category.
func (l *Logger) SetOutput(cat Category, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs[cat] = w
}

// Enabled reports whether an entry at level would be written for cat.
func (l *Logger) Enabled(cat Category, level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.levels[cat]
}

// Close shuts down the logger, flushing any buffered entries.
func (l *Logger) Close() error {
	if !l.asyncEnabled {
		return nil
	}

	if !atomic.CompareAndSwapInt32(&l.closed, 0, 1) {
		return nil
	}

	close(l.entryChan)
	l.wg.Wait()
	return nil
}

// Stats returns logging statistics.
func (l *Logger) Stats() (logged, dropped int64) {
	return atomic.LoadInt64(&l.entriesLogged), atomic.LoadInt64(&l.entriesDropped)
}

// Log logs an entry at the specified level and category.
func (l *Logger) Log(level Level, cat Category, msg string, fields ...interface{}) {
	l.log(level, cat, msg, nil, fields...)
}

func (l *Logger) Debug(cat Category, msg string, fields ...interface{}) {
	l.log(LevelDebug, cat, msg, nil, fields...)
}

func (l *Logger) Info(cat Category, msg string, fields ...interface{}) {
	l.log(LevelInfo, cat, msg, nil, fields...)
}

func (l *Logger) Warn(cat Category, msg string, fields ...interface{}) {
	l.log(LevelWarn, cat, msg, nil, fields...)
}

func (l *Logger) Error(cat Category, msg string, err error, fields ...interface{}) {
	l.log(LevelError, cat, msg, err, fields...)
}

// Lifecycle returns a category logger for init/deinit events.
func (l *Logger) Lifecycle() *CategoryLogger {
	return &CategoryLogger{logger: l, category: CategoryLifecycle}
}

// Row returns a category logger for per-row events.
func (l *Logger) Row() *CategoryLogger {
	return &CategoryLogger{logger: l, category: CategoryRow}
}

// Boundary returns a category logger for C boundary events.
func (l *Logger) Boundary() *CategoryLogger {
	return &CategoryLogger{logger: l, category: CategoryBoundary}
}

// Install returns a category logger for installer events.
func (l *Logger) Install() *CategoryLogger {
	return &CategoryLogger{logger: l, category: CategoryInstall}
}

// Host returns a category logger for the in-process engine.
func (l *Logger) Host() *CategoryLogger {
	return &CategoryLogger{logger: l, category: CategoryHost}
}

func (l *Logger) log(level Level, cat Category, msg string, err error, fields ...interface{}) {
	l.mu.RLock()
	catLevel, known := l.levels[cat]
	output := l.outputs[cat]
	format := l.format
	includeCaller := l.includeCaller
	l.mu.RUnlock()

	if !known || level < catLevel || output == nil {
		return
	}

	entry := &Entry{
		Time:     time.Now(),
		Level:    level,
		Category: cat,
		Message:  msg,
		Error:    err,
	}

	if err != nil {
		entry.ErrorStr = err.Error()
	}

	if len(fields) > 0 {
		entry.Fields = make(map[string]interface{})
		for i := 0; i < len(fields)-1; i += 2 {
			if key, ok := fields[i].(string); ok {
				entry.Fields[key] = fields[i+1]
			}
		}
	}

	if includeCaller {
		if _, file, line, ok := runtime.Caller(3); ok {
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			entry.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	if l.asyncEnabled && atomic.LoadInt32(&l.closed) == 0 {
		select {
		case l.entryChan <- entry:
			atomic.AddInt64(&l.entriesLogged, 1)
		default:
			atomic.AddInt64(&l.entriesDropped, 1)
		}
	} else {
		l.writeEntry(output, format, entry)
		atomic.AddInt64(&l.entriesLogged, 1)
	}
}

func (l *Logger) writeEntry(w io.Writer, format Format, entry *Entry) {
	var line string

	switch format {
	case FormatJSON:
		data, _ := json.Marshal(entry)
		line = string(data) + "\n"
	case FormatServer:
		line = formatServer(entry)
	default:
		line = formatText(entry)
	}

	// Logging never fails the caller.
	_, _ = io.WriteString(w, line)
}

func formatText(entry *Entry) string {
	var buf strings.Builder

	buf.WriteString(entry.Time.Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" ")
	buf.WriteString(fmt.Sprintf("%-5s", entry.Level.String()))
	buf.WriteString(" [")
	buf.WriteString(string(entry.Category))
	buf.WriteString("] ")

	if entry.Caller != "" {
		buf.WriteString(entry.Caller)
		buf.WriteString(" ")
	}

	buf.WriteString(entry.Message)
	writeTail(&buf, entry)
	buf.WriteString("\n")
	return buf.String()
}

func formatServer(entry *Entry) string {
	var buf strings.Builder

	buf.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString(" [")
	buf.WriteString(entry.Level.serverLabel())
	buf.WriteString("] Udf: ")
	buf.WriteString(entry.Message)
	writeTail(&buf, entry)
	buf.WriteString("\n")
	return buf.String()
}

// writeTail appends the error and fields, with fields in key order so lines
// are stable.
func writeTail(buf *strings.Builder, entry *Entry) {
	if entry.ErrorStr != "" {
		buf.WriteString(" error=\"")
		buf.WriteString(entry.ErrorStr)
		buf.WriteString("\"")
	}

	if len(entry.Fields) == 0 {
		return
	}
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(" ")
		buf.WriteString(k)
		buf.WriteString("=")
		buf.WriteString(fmt.Sprintf("%v", entry.Fields[k]))
	}
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for entry := range l.entryChan {
		l.mu.RLock()
		output := l.outputs[entry.Category]
		format := l.format
		l.mu.RUnlock()

		l.writeEntry(output, format, entry)
	}
}

// CategoryLogger is a logger bound to a specific category.
type CategoryLogger struct {
	logger   *Logger
	category Category
}

func (cl *CategoryLogger) Debug(msg string, fields ...interface{}) {
	cl.logger.log(LevelDebug, cl.category, msg, nil, fields...)
}

func (cl *CategoryLogger) Info(msg string, fields ...interface{}) {
	cl.logger.log(LevelInfo, cl.category, msg, nil, fields...)
}

func (cl *CategoryLogger) Warn(msg string, fields ...interface{}) {
	cl.logger.log(LevelWarn, cl.category, msg, nil, fields...)
}

func (cl *CategoryLogger) Error(msg string, err error, fields ...interface{}) {
	cl.logger.log(LevelError, cl.category, msg, err, fields...)
}

type contextKey int

const contextKeyLogger contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// FromContext retrieves the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKeyLogger).(*Logger); ok {
		return l
	}
	return Default()
}

var (
	defaultLogger atomic.Pointer[Logger]
	defaultOnce   sync.Once
)

// Default returns the default logger instance.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger.CompareAndSwap(nil, New(DefaultConfig()))
	})
	return defaultLogger.Load()
}

// SetDefault sets the default logger instance and returns the previous one.
func SetDefault(l *Logger) *Logger {
	defaultOnce.Do(func() {})
	return defaultLogger.Swap(l)
}
