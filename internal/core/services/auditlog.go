package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
)

// AuditEntry is one completed turn: the visitor's message, the final reply,
// and a snapshot of its evaluation. Entries are never edited or deleted.
type AuditEntry struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	User       string            `json:"user"`
	Assistant  string            `json:"assistant"`
	Evaluation domain.Evaluation `json:"evaluation"`
}

// AuditLog is an append-only record of every turn, persisted as a single JSON
// array rewritten in full after each append. The read-modify-rewrite is a
// single-writer critical section so concurrent requests cannot lose updates.
type AuditLog struct {
	mu      sync.Mutex
	path    string
	entries []AuditEntry
}

// NewAuditLog opens (or creates) the log at path, loading any existing entries.
func NewAuditLog(path string) (*AuditLog, error) {
	log := &AuditLog{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return log, nil
		}
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &log.entries); err != nil {
			return nil, fmt.Errorf("parse audit log: %w", err)
		}
	}
	return log, nil
}

// Append adds an entry and rewrites the full log file.
func (l *AuditLog) Append(entry AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)

	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode audit log: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audit log dir: %w", err)
		}
	}

	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Entries returns a copy of all entries in chronological order.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded turns.
func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
