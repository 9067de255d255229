// Package store defines the Record Store ports. Every read or write of the
// persisted ledger goes through one of these interfaces.
package store

import (
	"context"
	"errors"

	"ledger/internal/core"
)

// ErrMalformed wraps any failure to decode persisted ledger content.
var ErrMalformed = errors.New("malformed ledger data")

type (
	// Loader returns every persisted record in ledger order. A backing store
	// that does not exist yet reads as an empty ledger.
	Loader interface {
		Load(ctx context.Context) ([]core.Record, error)
	}

	// Saver overwrites the whole backing store with records.
	Saver interface {
		Save(ctx context.Context, records []core.Record) error
	}

	// Appender adds one record at the end of the ledger.
	Appender interface {
		Append(ctx context.Context, r core.Record) error
	}

	// Updater replaces the record at a 0-based position. It reports false,
	// and changes nothing, when index is outside [0, len).
	Updater interface {
		Update(ctx context.Context, index int, r core.Record) (bool, error)
	}

	// Searcher returns the records matching every criterion.
	Searcher interface {
		Search(ctx context.Context, c core.Criteria) ([]core.Record, error)
	}

	// Store is the complete Record Store.
	Store interface {
		Loader
		Saver
		Appender
		Updater
		Searcher
	}
)

// Balance recomputes income, expenses and balance from the current content
// of l. Nothing is cached.
func Balance(ctx context.Context, l Loader) (core.Balance, error) {
	records, err := l.Load(ctx)
	if err != nil {
		return core.Balance{}, err
	}
	return core.ComputeBalance(records), nil
}
