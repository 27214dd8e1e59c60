// Package runlog keeps the append-only run journal: one JSON line per run,
// written after the delivery step settles, never rewritten. The publisher
// itself never reads it back; it exists for operators and external tooling.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable run record.
type Entry struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Category  string    `json:"category"`
	Title     string    `json:"title,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Verdict   string    `json:"verdict,omitempty"`
	Delivered bool      `json:"delivered"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// Log appends entries to a JSONL file.
type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry as a single line, stamping an ID and timestamp when
// the caller left them empty.
func (l *Log) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding run log entry: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending run log entry: %w", err)
	}
	return nil
}
