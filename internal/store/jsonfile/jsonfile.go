// Package jsonfile keeps the ledger in a single pretty-printed JSON file.
//
// The file is opened, fully read or fully written, and closed inside every
// call; no handle or record survives between calls. Concurrent writers to
// the same file are not supported: the last writer wins.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/store"
)

const indent = "    "

type Store struct {
	path string
}

var _ store.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load implements store.Loader. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file absent, starting empty", "path", s.path)
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}

	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrMalformed, s.path, err)
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

// Save implements store.Saver. The new content is written to a temporary
// file next to the ledger and renamed over it, so a reader sees either the
// old or the new ledger. There is no backup of the previous content.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", s.path, "records", len(records))
	return nil
}

// Append implements store.Appender as Save(Load() + [r]).
func (s *Store) Append(ctx context.Context, r core.Record) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, append(records, r))
}

// Update implements store.Updater.
func (s *Store) Update(ctx context.Context, index int, r core.Record) (bool, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(records) {
		return false, nil
	}
	records[index] = r
	if err := s.Save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

// Search implements store.Searcher.
func (s *Store) Search(ctx context.Context, c core.Criteria) ([]core.Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return core.Filter(records, c), nil
}
