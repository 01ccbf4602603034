// Package buildlog turns raw build output into classified log lines and per file error annotations
package buildlog

import (
	"strings"
	"time"
)

// Severity is derived from the leading token of a log message
type Severity string

const (
	// SeverityError marks lines starting with [ERROR]
	SeverityError Severity = "ERROR"
	// SeverityWarning marks lines starting with WARNING
	SeverityWarning Severity = "WARNING"
	// SeverityOther is everything else
	SeverityOther Severity = "OTHER"
)

// Entry is one raw line as delivered by the build system
type Entry struct {
	Time string `json:"time"`
	Log  string `json:"log"`
}

// LogLine is an immutable classified build log line
type LogLine struct {
	Timestamp time.Time
	Message   string
	Severity  Severity
}

// Classify derives the severity of a message
// leading whitespace is ignored
func Classify(message string) Severity {
	m := strings.TrimLeft(message, " \t\r\n\v\f")
	switch {
	case strings.HasPrefix(m, "[ERROR]"):
		return SeverityError
	case strings.HasPrefix(m, "WARNING"):
		return SeverityWarning
	default:
		return SeverityOther
	}
}

// NewLine builds a classified line from a raw time string and message
func NewLine(rawTime, message string) LogLine {
	return LogLine{
		Timestamp: ParseTime(rawTime),
		Message:   message,
		Severity:  Classify(message),
	}
}

// FromEntries classifies raw entries in order
func FromEntries(entries []Entry) []LogLine {
	out := make([]LogLine, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewLine(e.Time, e.Log))
	}
	return out
}

// Counts tallies lines per severity
func Counts(lines []LogLine) map[Severity]int {
	out := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityOther:   0,
	}
	for _, l := range lines {
		out[l.Severity]++
	}
	return out
}

// layouts accepted by ParseTime, tried in order
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO 8601 style timestamp
// values without a zone are read as UTC
// an unparseable value yields the zero time
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnixMilli returns the millisecond epoch of t, or nil for the zero time
func UnixMilli(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
