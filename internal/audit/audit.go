// Package audit keeps an in-process record of every AWS operation the
// server performed. Entries live for the lifetime of the process and are
// exposed as a rendered text report through the audit resource.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"awsmcp/internal/redact"
)

const (
	reportBanner = "📋 AWS Operations Audit Log 📋"
	emptyMessage = "No AWS operations have been performed yet."

	paramsPlaceholder = "(parameters unavailable)"
)

// Entry is the immutable record of one successfully completed operation.
type Entry struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Service    string         `json:"service"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
}

// Log is an append-only operation log. A nil mirror disables the
// JSON-lines stream; entries are kept in memory either way.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	mirror   io.Writer
	redactor *redact.Redactor
	now      func() time.Time
}

func NewLog(mirror io.Writer) *Log {
	if mirror == nil {
		mirror = io.Discard
	}
	return &Log{
		mirror:   mirror,
		redactor: redact.New(),
		now:      time.Now,
	}
}

// overridable for marshal-failure tests
var jsonMarshal = json.Marshal

// Record appends an entry for a completed operation. It never fails:
// parameters that cannot be serialized are replaced by a placeholder so
// the operation that triggered the record is unaffected.
func (l *Log) Record(service, operation string, parameters map[string]any) {
	if l == nil {
		return
	}
	params := l.redactor.RedactMap(parameters)
	if params != nil {
		if _, err := jsonMarshal(params); err != nil {
			params = map[string]any{"note": paramsPlaceholder}
		}
	}
	entry := Entry{
		ID:         uuid.NewString(),
		Timestamp:  l.now().UTC(),
		Service:    service,
		Operation:  operation,
		Parameters: params,
	}

	// Append and mirror under one lock so the mirror stream preserves
	// insertion order under concurrent dispatch.
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if data, err := jsonMarshal(entry); err == nil {
		_, _ = l.mirror.Write(append(data, '\n'))
	}
	l.mu.Unlock()
}

// Entries returns a snapshot copy in insertion order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the number of recorded entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Render produces the human-readable audit report, one block per entry
// in insertion order.
func (l *Log) Render() string {
	entries := l.Entries()
	if len(entries) == 0 {
		return emptyMessage
	}

	var report strings.Builder
	report.WriteString(reportBanner)
	report.WriteString("\n\n")
	for _, entry := range entries {
		report.WriteString(fmt.Sprintf("[%s]\n", entry.Timestamp.Format(time.RFC3339)))
		report.WriteString(fmt.Sprintf("Service: %s\n", entry.Service))
		report.WriteString(fmt.Sprintf("Operation: %s\n", entry.Operation))
		report.WriteString(fmt.Sprintf("Parameters: %s\n", renderParameters(entry.Parameters)))
		report.WriteString(strings.Repeat("-", 50))
		report.WriteString("\n")
	}
	return report.String()
}

func renderParameters(params map[string]any) string {
	if params == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return paramsPlaceholder
	}
	return string(data)
}
