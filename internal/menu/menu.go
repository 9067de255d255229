// Package menu is the interactive text front end of the ledger. It reads
// user choices line by line, validates raw input, and renders results; all
// persistence goes through the Ledger it is given.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Ledger is the set of core operations the menu drives.
type Ledger interface {
	Records(ctx context.Context) ([]core.Record, error)
	Add(ctx context.Context, r core.Record) error
	Edit(ctx context.Context, index int, r core.Record) (bool, error)
	Search(ctx context.Context, c core.Criteria) ([]core.Record, error)
	Balance(ctx context.Context) (core.Balance, error)
}

// operations names the log operation behind each menu choice.
var operations = map[string]string{
	"1": applog.OpBalance,
	"2": applog.OpAppend,
	"3": applog.OpLoad,
	"4": applog.OpUpdate,
	"5": applog.OpSearch,
}

const mainPrompt = "Choose an action: 1 - Show balance, 2 - Add record, 3 - List records, 4 - Edit record, 5 - Search records, 0 - Exit: "

type Menu struct {
	ledger Ledger
	in     *bufio.Scanner
	out    io.Writer
}

func New(l Ledger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		ledger: l,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run loops until the user picks 0, input ends, or ctx is cancelled.
// Errors from the ledger are shown to the user and do not end the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := m.prompt(mainPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(m.out)
			return nil
		}
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case "1":
			actionErr = m.ShowBalance(ctx)
		case "2":
			actionErr = m.AddRecord(ctx)
		case "3":
			actionErr = m.ListRecords(ctx)
		case "4":
			actionErr = m.EditRecord(ctx)
		case "5":
			actionErr = m.SearchRecords(ctx)
		case "0":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
			continue
		}

		switch {
		case actionErr == nil:
		case errors.Is(actionErr, io.EOF):
			fmt.Fprintln(m.out)
			return nil
		default:
			applog.FromContext(ctx).LogError(ctx, "Menu action failed", actionErr, operations[choice], nil)
			fmt.Fprintf(m.out, "Error: %v\n", actionErr)
		}
	}
}

// ShowBalance prints balance, income and expenses.
func (m *Menu) ShowBalance(ctx context.Context) error {
	b, err := m.ledger.Balance(ctx)
	if err != nil {
		return err
	}
	RenderBalance(m.out, b)
	return nil
}

// AddRecord prompts for a record and appends it.
func (m *Menu) AddRecord(ctx context.Context) error {
	r, err := m.InputRecord()
	if err != nil {
		return err
	}
	if err := m.ledger.Add(ctx, r); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Record added.")
	return nil
}

// ListRecords prints every record numbered from 1.
func (m *Menu) ListRecords(ctx context.Context) error {
	records, err := m.ledger.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(m.out, "No records.")
		return nil
	}
	RenderRecords(m.out, records)
	return nil
}

// EditRecord lets the user pick a record by its displayed number and
// replace it with a freshly entered one.
func (m *Menu) EditRecord(ctx context.Context) error {
	records, err := m.ledger.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(m.out, "No records available to edit.")
		return nil
	}

	RenderRecords(m.out, records)
	line, err := m.prompt("Enter the number of the record to edit: ")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(line)
	index := n - 1
	if err != nil || index < 0 || index >= len(records) {
		fmt.Fprintln(m.out, "Invalid record number.")
		return nil
	}

	r, err := m.InputRecord()
	if err != nil {
		return err
	}
	ok, err := m.ledger.Edit(ctx, index, r)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(m.out, "Record updated.")
	} else {
		fmt.Fprintln(m.out, "Could not update the record.")
	}
	return nil
}

// SearchRecords asks for a date and a category and lists the records that
// match both.
func (m *Menu) SearchRecords(ctx context.Context) error {
	c, err := m.InputSearchCriteria()
	if err != nil {
		return err
	}
	found, err := m.ledger.Search(ctx, c)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(m.out, "Nothing found for your query.")
		return nil
	}
	RenderRecords(m.out, found)
	return nil
}

// InputRecord prompts for each field, re-prompting until the value is valid.
func (m *Menu) InputRecord() (core.Record, error) {
	date, err := promptUntil(m, "Enter date (YYYY-MM-DD): ",
		"Invalid date. Use the YYYY-MM-DD format.", core.ParseDate)
	if err != nil {
		return core.Record{}, err
	}

	category, err := promptUntil(m, "Enter category (1 - Income, 2 - Expense): ",
		"Invalid input. Enter 1 for Income or 2 for Expense.", parseCategoryChoice)
	if err != nil {
		return core.Record{}, err
	}

	amount, err := promptUntil(m, "Enter amount: ",
		"Invalid input. Enter a non-negative number.", core.ParseAmount)
	if err != nil {
		return core.Record{}, err
	}

	description, err := m.promptRaw("Enter description: ")
	if err != nil {
		return core.Record{}, err
	}

	return core.NewRecord(date, category, amount, description), nil
}

// InputSearchCriteria reads a date and a category. Values are used as
// typed, except that a category given as 1 or 2 or in any letter case is
// normalised.
func (m *Menu) InputSearchCriteria() (core.Criteria, error) {
	date, err := m.prompt("Enter date to search (YYYY-MM-DD): ")
	if err != nil {
		return nil, err
	}
	category, err := m.prompt("Enter category to search (Income/Expense): ")
	if err != nil {
		return nil, err
	}
	if c, err := core.ParseCategory(category); err == nil {
		category = c.String()
	}
	return core.Criteria{
		core.FieldDate:     date,
		core.FieldCategory: category,
	}, nil
}

// parseCategoryChoice only accepts the numbered menu options.
func parseCategoryChoice(s string) (core.Category, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return core.Income, nil
	case "2":
		return core.Expense, nil
	default:
		return "", core.ErrInvalidCategory
	}
}

func promptUntil[T any](m *Menu, question, retry string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := m.prompt(question)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(m.out, retry)
	}
}

// prompt returns the next input line with surrounding space removed.
func (m *Menu) prompt(question string) (string, error) {
	line, err := m.promptRaw(question)
	return strings.TrimSpace(line), err
}

func (m *Menu) promptRaw(question string) (string, error) {
	fmt.Fprint(m.out, question)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(m.in.Text(), "\r"), nil
}
