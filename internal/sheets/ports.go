package sheets

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// Mirror publishes a read-only copy of the whole ledger. Each Sync
	// replaces whatever the previous one wrote.
	Mirror interface {
		Sync(ctx context.Context, records []core.Record) error
	}
)

// Header is the first row of every mirrored sheet.
var Header = []any{"Date", "Category", "Amount", "Description"}

// Rows renders records as sheet rows, header first. Amounts are written as
// decimal strings so no precision is lost on the way.
func Rows(records []core.Record) [][]any {
	rows := make([][]any, 0, len(records)+1)
	rows = append(rows, Header)
	for _, r := range records {
		rows = append(rows, []any{r.Date, r.Category.String(), r.Amount.String(), r.Description})
	}
	return rows
}
