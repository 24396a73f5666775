package memory

import (
	"context"
	"sync"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// Log is a fixed-capacity ring buffer of recent queries, used when no
// Postgres DSN is configured.
type Log struct {
	capacity int

	mu      sync.Mutex
	entries []domain.QueryLogEntry
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 100
	}
	return &Log{capacity: capacity}
}

func (l *Log) Name() string { return "memory" }

func (l *Log) Record(_ context.Context, entry domain.QueryLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Log) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	if limit > n {
		limit = n
	}
	out := make([]domain.QueryLogEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
