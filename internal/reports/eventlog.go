// Package reports maintains the line-oriented event files consumed by the
// external dashboard. One line per event: timestamp | address | label.
// The format is an external contract; do not restructure the lines.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventKind selects which event file a record lands in.
type EventKind string

const (
	KindPrediction EventKind = "predictions"
	KindBlocked    EventKind = "blocked"
	KindUnblocked  EventKind = "unblocked"
)

var kindFiles = map[EventKind]string{
	KindPrediction: "prediction_log.txt",
	KindBlocked:    "blocked_log.txt",
	KindUnblocked:  "unblocked_log.txt",
}

// ValidKind reports whether v names a known event kind.
func ValidKind(v string) bool {
	_, ok := kindFiles[EventKind(v)]
	return ok
}

const delimiter = " | "

// EventLog appends delimiter-separated event lines to per-kind files.
type EventLog struct {
	mu  sync.Mutex
	dir string
}

func NewEventLog(dir string) (*EventLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create event log dir: %w", err)
	}
	return &EventLog{dir: dir}, nil
}

// Record appends one event line. Callers treat failures as best-effort and
// only log them; the event files are a reporting surface, not the audit
// trail of record.
func (l *EventLog) Record(kind EventKind, at time.Time, address, label string) error {
	file, ok := kindFiles[kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", kind)
	}

	line := at.UTC().Format(time.RFC3339) + delimiter + address + delimiter + label + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(l.dir, file), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// Read returns the raw contents of one event file. Missing files read as
// empty: no events yet.
func (l *EventLog) Read(kind EventKind) ([]byte, error) {
	file, ok := kindFiles[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(l.dir, file))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}

// Clear truncates every event file. Debug-tooling only.
func (l *EventLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, file := range kindFiles {
		path := filepath.Join(l.dir, file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.Truncate(path, 0); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", file, err)
		}
	}
	return nil
}
