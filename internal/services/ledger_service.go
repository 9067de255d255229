package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/store"
)

// EventPublisher announces persisted ledger changes.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// LedgerService orchestrates ledger operations across a record store and an
// optional event publisher. The store is the source of truth: a failed
// publish never undoes or fails a persisted change.
type LedgerService struct {
	store     store.Store
	publisher EventPublisher
}

// NewLedgerService wires a store with an optional publisher (nil disables
// events).
func NewLedgerService(s store.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     s,
		publisher: publisher,
	}
}

// Records returns the whole ledger in entry order.
func (s *LedgerService) Records(ctx context.Context) ([]core.Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// Add appends r to the ledger.
func (s *LedgerService) Add(ctx context.Context, r core.Record) error {
	position := -1
	if s.publisher != nil {
		records, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		position = len(records)
	}

	if err := s.store.Append(ctx, r); err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	slog.DebugContext(ctx, "Record added",
		"date", r.Date,
		"category", r.Category,
		"amount", r.Amount.String())

	s.publish(ctx, amqp.EventAppended, position, r)
	return nil
}

// Edit replaces the record at the 0-based index. It returns false when the
// index does not address an existing record.
func (s *LedgerService) Edit(ctx context.Context, index int, r core.Record) (bool, error) {
	ok, err := s.store.Update(ctx, index, r)
	if err != nil {
		return false, fmt.Errorf("update record %d: %w", index, err)
	}
	if !ok {
		slog.DebugContext(ctx, "Update rejected, index out of range", "index", index)
		return false, nil
	}

	s.publish(ctx, amqp.EventUpdated, index, r)
	return true, nil
}

// Search returns the records matching every criterion.
func (s *LedgerService) Search(ctx context.Context, c core.Criteria) ([]core.Record, error) {
	records, err := s.store.Search(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	return records, nil
}

// Balance recomputes the three balance figures from the current ledger.
func (s *LedgerService) Balance(ctx context.Context) (core.Balance, error) {
	b, err := store.Balance(ctx, s.store)
	if err != nil {
		return core.Balance{}, fmt.Errorf("compute balance: %w", err)
	}
	return b, nil
}

func (s *LedgerService) publish(ctx context.Context, kind amqp.EventKind, position int, r core.Record) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping ledger event", "kind", kind)
		return
	}

	if err := s.publisher.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(kind, position, r)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind,
			"position", position,
			"error", err)
	}
}

// Close releases the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
