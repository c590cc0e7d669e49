package log

import (
	"strings"
	"sync"
)

// TestEntry represents a captured log entry for testing
type TestEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

var (
	_ Logger = (*TestLogger)(nil)
	_ Logger = (*testChild)(nil)
)

// TestLogger is a Logger implementation for testing that captures logs
// without producing output and provides methods to verify logging behavior.
type TestLogger struct {
	mu      sync.Mutex
	entries []TestEntry
	fields  []Field
	level   Level
}

// NewTestLogger creates a new TestLogger for use in unit tests
func NewTestLogger() *TestLogger {
	return &TestLogger{level: DebugLevel}
}

// GetEntries returns all captured log entries
func (l *TestLogger) GetEntries() []TestEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]TestEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// ClearEntries clears all captured log entries
func (l *TestLogger) ClearEntries() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// HasEntry reports whether any captured message contains the substring.
func (l *TestLogger) HasEntry(level Level, substring string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.Level == level && strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}

func (l *TestLogger) capture(level Level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	l.entries = append(l.entries, TestEntry{
		Level:   level,
		Message: msg,
		Fields:  append(append([]Field{}, l.fields...), fields...),
	})
}

// Debug captures a debug entry.
func (l *TestLogger) Debug(msg string, fields ...Field) { l.capture(DebugLevel, msg, fields) }

// Info captures an info entry.
func (l *TestLogger) Info(msg string, fields ...Field) { l.capture(InfoLevel, msg, fields) }

// Warn captures a warn entry.
func (l *TestLogger) Warn(msg string, fields ...Field) { l.capture(WarnLevel, msg, fields) }

// Error captures an error entry.
func (l *TestLogger) Error(msg string, fields ...Field) { l.capture(ErrorLevel, msg, fields) }

// Fatal captures a fatal entry without exiting, so tests can assert on it.
func (l *TestLogger) Fatal(msg string, fields ...Field) { l.capture(FatalLevel, msg, fields) }

// With returns a logger that attaches the given fields to every entry.
func (l *TestLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	child := &TestLogger{level: l.level}
	child.fields = append(append([]Field{}, l.fields...), fields...)
	// Share the parent's entry sink so assertions see child output.
	child.entries = nil
	return &testChild{parent: l, fields: child.fields}
}

// WithComponent tags logs with a component name.
func (l *TestLogger) WithComponent(component string) Logger {
	return l.With(Str(ComponentKey, component))
}

// SetLevel sets the minimum log level.
func (l *TestLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *TestLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// testChild forwards entries to the parent TestLogger with extra fields.
type testChild struct {
	parent *TestLogger
	fields []Field
}

func (c *testChild) log(level Level, msg string, fields []Field) {
	c.parent.capture(level, msg, append(append([]Field{}, c.fields...), fields...))
}

func (c *testChild) Debug(msg string, fields ...Field) { c.log(DebugLevel, msg, fields) }
func (c *testChild) Info(msg string, fields ...Field)  { c.log(InfoLevel, msg, fields) }
func (c *testChild) Warn(msg string, fields ...Field)  { c.log(WarnLevel, msg, fields) }
func (c *testChild) Error(msg string, fields ...Field) { c.log(ErrorLevel, msg, fields) }
func (c *testChild) Fatal(msg string, fields ...Field) { c.log(FatalLevel, msg, fields) }

func (c *testChild) With(fields ...Field) Logger {
	return &testChild{parent: c.parent, fields: append(append([]Field{}, c.fields...), fields...)}
}

func (c *testChild) WithComponent(component string) Logger {
	return c.With(Str(ComponentKey, component))
}

func (c *testChild) SetLevel(level Level) { c.parent.SetLevel(level) }
func (c *testChild) GetLevel() Level      { return c.parent.GetLevel() }
