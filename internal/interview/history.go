package interview

import (
	"context"
	"sync"
)

// HistorySink receives the record of every completed session.
type HistorySink interface {
	Record(ctx context.Context, rec HistoryRecord) error
}

// HistorySinkFunc adapts a function to HistorySink.
type HistorySinkFunc func(ctx context.Context, rec HistoryRecord) error

func (f HistorySinkFunc) Record(ctx context.Context, rec HistoryRecord) error {
	return f(ctx, rec)
}

// MemoryHistory is an append-only in-process history list.
type MemoryHistory struct {
	mu      sync.RWMutex
	records []HistoryRecord
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (m *MemoryHistory) Record(_ context.Context, rec HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// List returns records most recent first.
func (m *MemoryHistory) List() []HistoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]HistoryRecord, len(m.records))
	for i, rec := range m.records {
		out[len(m.records)-1-i] = rec
	}
	return out
}

func (m *MemoryHistory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
