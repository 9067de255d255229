package menu

import (
	"fmt"
	"io"

	"ledger/internal/core"
)

// RenderBalance writes the three balance figures.
func RenderBalance(w io.Writer, b core.Balance) {
	fmt.Fprintf(w, "Current balance: %s\n", b.Balance)
	fmt.Fprintf(w, "Total income: %s\n", b.Income)
	fmt.Fprintf(w, "Total expenses: %s\n", b.Expenses)
}

// RenderRecords writes one line per record, numbered from 1.
func RenderRecords(w io.Writer, records []core.Record) {
	for i, r := range records {
		fmt.Fprintf(w, "%d. Date: %s Category: %s Amount: %s Description: %s\n",
			i+1, r.Date, r.Category, r.Amount, r.Description)
	}
}
