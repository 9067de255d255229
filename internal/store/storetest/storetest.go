// Package storetest checks that a store.Store implementation honours the
// Record Store contract. Backends call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Factory returns a new, empty store isolated from every other call.
type Factory func(t *testing.T) store.Store

// Salary and Food are the two records used by the contract scenarios.
var (
	Salary = core.NewRecord("2024-01-01", core.Income, core.AmountFromInt(100), "salary")
	Food   = core.NewRecord("2024-01-02", core.Expense, core.AmountFromInt(40), "food")
)

// Run executes the contract scenarios against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store loads empty", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil ledger, got %#v", got)
		}
		b, err := store.Balance(ctx, s)
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if !b.Income.IsZero() || !b.Expenses.IsZero() || !b.Balance.IsZero() {
			t.Fatalf("expected zero balance, got %+v", b)
		}
	})

	t.Run("save then load round trips", func(t *testing.T) {
		s := newStore(t)
		want := []core.Record{
			Salary,
			Food,
			core.NewRecord("2024-02-10", core.Expense, core.NewAmount(1999, -2), ""),
		}
		if err := s.Save(ctx, want); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got := MustLoad(t, s)
		AssertRecords(t, got, want)

		if err := s.Save(ctx, []core.Record{Food}); err != nil {
			t.Fatalf("Save: %v", err)
		}
		AssertRecords(t, MustLoad(t, s), []core.Record{Food})
	})

	t.Run("append adds at the end", func(t *testing.T) {
		s := newStore(t)
		MustAppend(t, s, Salary)
		MustAppend(t, s, Food)
		AssertRecords(t, MustLoad(t, s), []core.Record{Salary, Food})

		b, err := store.Balance(ctx, s)
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if !b.Income.Equal(core.AmountFromInt(100)) || !b.Expenses.Equal(core.AmountFromInt(40)) || !b.Balance.Equal(core.AmountFromInt(60)) {
			t.Fatalf("unexpected balance %s/%s/%s", b.Income, b.Expenses, b.Balance)
		}
	})

	t.Run("update in range replaces one position", func(t *testing.T) {
		s := newStore(t)
		MustAppend(t, s, Salary)
		MustAppend(t, s, Food)

		repl := core.NewRecord("2024-01-03", core.Expense, core.AmountFromInt(70), "rent")
		ok, err := s.Update(ctx, 1, repl)
		if err != nil || !ok {
			t.Fatalf("Update(1) = %v, %v", ok, err)
		}
		AssertRecords(t, MustLoad(t, s), []core.Record{Salary, repl})

		b, err := store.Balance(ctx, s)
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if !b.Balance.Equal(core.AmountFromInt(30)) {
			t.Fatalf("balance after update = %s, want 30", b.Balance)
		}
	})

	t.Run("update out of range reports failure", func(t *testing.T) {
		s := newStore(t)
		MustAppend(t, s, Salary)
		MustAppend(t, s, Food)

		for _, idx := range []int{5, 2, -1} {
			ok, err := s.Update(ctx, idx, core.NewRecord("2030-01-01", core.Income, core.AmountFromInt(1), "x"))
			if err != nil {
				t.Fatalf("Update(%d) error: %v", idx, err)
			}
			if ok {
				t.Fatalf("Update(%d) should report failure", idx)
			}
		}
		AssertRecords(t, MustLoad(t, s), []core.Record{Salary, Food})
	})

	t.Run("search", func(t *testing.T) {
		s := newStore(t)
		MustAppend(t, s, Salary)
		MustAppend(t, s, Food)

		all, err := s.Search(ctx, core.Criteria{})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		AssertRecords(t, all, []core.Record{Salary, Food})

		got, err := s.Search(ctx, core.Criteria{core.FieldDate: "2024-01-01", core.FieldCategory: "Income"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		AssertRecords(t, got, []core.Record{Salary})

		none, err := s.Search(ctx, core.Criteria{core.FieldDate: "2024-01-01", core.FieldCategory: "Expense"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("expected no match, got %+v", none)
		}
	})
}

func MustLoad(t *testing.T, s store.Loader) []core.Record {
	t.Helper()
	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return records
}

func MustAppend(t *testing.T, s store.Appender, r core.Record) {
	t.Helper()
	if err := s.Append(context.Background(), r); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

// AssertRecords fails the test unless got and want hold equal records in
// the same order.
func AssertRecords(t *testing.T, got, want []core.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d\ngot:  %+v\nwant: %+v", len(got), len(want), got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
