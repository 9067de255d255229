package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Store keeps the ledger in process memory. Nothing outlives the process.
type Store struct {
	mu    sync.Mutex
	items []core.Record
}

var _ store.Store = (*Store)(nil)

func New(seed ...core.Record) *Store {
	return &Store{items: append([]core.Record(nil), seed...)}
}

func (s *Store) Load(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record{}, s.items...), nil
}

func (s *Store) Save(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Record(nil), records...)
	return nil
}

// Append stores the record at the end of the ledger.
func (s *Store) Append(_ context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return nil
}

func (s *Store) Update(_ context.Context, index int, r core.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return false, nil
	}
	s.items[index] = r
	return true, nil
}

func (s *Store) Search(ctx context.Context, c core.Criteria) ([]core.Record, error) {
	records, _ := s.Load(ctx)
	return core.Filter(records, c), nil
}
