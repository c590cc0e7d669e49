package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TextFormatter renders entries as human-readable single lines.
type TextFormatter struct {
	// TimestampFormat overrides the default RFC3339 timestamp layout.
	TimestampFormat string
}

// NewTextFormatter creates a text formatter with default settings.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: time.RFC3339}
}

// Format renders an entry as "<ts> <LEVEL> <msg> key=value ...".
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	b.WriteByte(' ')
	b.WriteString(entry.Level.String())
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, field := range entry.Fields {
		fmt.Fprintf(&b, " %s=%v", field.Key, field.Value)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter renders entries as single-line JSON objects.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format renders an entry as a JSON object with ts/level/msg plus fields.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	obj := map[string]interface{}{
		"ts":    entry.Timestamp.Format(time.RFC3339Nano),
		"level": strings.ToLower(entry.Level.String()),
		"msg":   entry.Message,
	}
	for _, field := range entry.Fields {
		obj[field.Key] = field.Value
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(data, '\n'), nil
}
