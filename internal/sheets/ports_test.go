package sheets

import (
	"reflect"
	"testing"

	"ledger/internal/core"
)

func TestRows(t *testing.T) {
	records := []core.Record{
		core.NewRecord("2024-01-01", core.Income, core.AmountFromInt(100), "salary"),
		core.NewRecord("2024-01-02", core.Expense, core.NewAmount(1999, -2), ""),
	}

	got := Rows(records)
	want := [][]any{
		{"Date", "Category", "Amount", "Description"},
		{"2024-01-01", "Income", "100", "salary"},
		{"2024-01-02", "Expense", "19.99", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rows() = %v, want %v", got, want)
	}
}

func TestRowsEmptyLedgerKeepsHeader(t *testing.T) {
	got := Rows(nil)
	if len(got) != 1 || !reflect.DeepEqual(got[0], Header) {
		t.Fatalf("expected header only, got %v", got)
	}
}
