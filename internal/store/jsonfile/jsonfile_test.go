package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "financial_records.json"))
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestLoadMissingFileDoesNotCreateIt(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("Load must not create the ledger file, stat err=%v", err)
	}
}

func TestSaveFormat(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), []core.Record{storetest.Salary}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `[
    {
        "date": "2024-01-01",
        "category": "Income",
        "amount": 100,
        "description": "salary"
    }
]`
	if string(data) != want {
		t.Fatalf("unexpected file content:\n%s\nwant:\n%s", data, want)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(s.Path())
	if string(data) != "[]" {
		t.Fatalf("got %q, want []", data)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	storetest.MustAppend(t, s, storetest.Salary)
	storetest.MustAppend(t, s, storetest.Food)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the ledger file, found %v", names)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "{oops",
		"object":        `{"date": "2024-01-01"}`,
		"bad amount":    `[{"date":"2024-01-01","category":"Income","amount":"lots","description":""}]`,
		"empty content": "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := s.Load(context.Background())
			if !errors.Is(err, store.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if err := s.Append(context.Background(), storetest.Food); !errors.Is(err, store.ErrMalformed) {
				t.Fatalf("Append on malformed ledger should fail with ErrMalformed, got %v", err)
			}
			data, _ := os.ReadFile(s.Path())
			if string(data) != content {
				t.Fatalf("malformed ledger must be left untouched")
			}
		})
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	s := newTestStore(t)
	content := `[
    {"date": "2024-01-01", "category": "Income", "amount": 100.0, "description": "salary"},
    {"date": "2024-01-02", "category": "Expense", "amount": 40, "description": "food"}
]`
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	storetest.AssertRecords(t, storetest.MustLoad(t, s), []core.Record{storetest.Salary, storetest.Food})
}

func TestSaveIntoMissingDirectoryFails(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "ledger.json"))
	if err := s.Save(context.Background(), []core.Record{storetest.Salary}); err == nil {
		t.Fatalf("expected error when the directory does not exist")
	}
}
