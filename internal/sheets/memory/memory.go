package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

// Mirror keeps the last synced sheet in memory. Useful for local runs of the
// worker and for tests.
type Mirror struct {
	mu    sync.Mutex
	rows  [][]any
	syncs int
}

var _ sheets.Mirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// Sync replaces the stored rows with the rendering of records.
func (m *Mirror) Sync(_ context.Context, records []core.Record) error {
	rows := sheets.Rows(records)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	m.syncs++
	return nil
}

// Rows returns the rows written by the last Sync, header included.
func (m *Mirror) Rows() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]any(nil), m.rows...)
}

// Syncs reports how many times Sync ran.
func (m *Mirror) Syncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncs
}
