package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk form of a record date.
const DateLayout = "2006-01-02"

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

type (
	Category string

	// Record is one ledger entry. It has no identifier: its identity is its
	// position in the ledger.
	Record struct {
		Date        string   `json:"date"`
		Category    Category `json:"category"`
		Amount      Amount   `json:"amount"`
		Description string   `json:"description"`
	}

	// Balance holds the three figures derived from a ledger.
	Balance struct {
		Income   Amount
		Expenses Amount
		Balance  Amount
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
)

func (c Category) String() string { return string(c) }

// IsValid reports whether c is one of the two known categories.
func (c Category) IsValid() bool {
	switch c {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// ParseCategory accepts a menu choice ("1", "2") or a category name,
// case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "income":
		return Income, nil
	case "2", "expense":
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// ParseDate checks that s is a calendar date in YYYY-MM-DD form and returns
// it in canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// NewRecord builds a record from already parsed fields.
func NewRecord(date string, category Category, amount Amount, description string) Record {
	return Record{
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
	}
}

func (r Record) Validate() error {
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// ComputeBalance sums incomes and expenses over records.
// Records with any other category are ignored.
func ComputeBalance(records []Record) Balance {
	var b Balance
	for _, r := range records {
		switch r.Category {
		case Income:
			b.Income = b.Income.Add(r.Amount)
		case Expense:
			b.Expenses = b.Expenses.Add(r.Amount)
		}
	}
	b.Balance = b.Income.Sub(b.Expenses)
	return b
}
