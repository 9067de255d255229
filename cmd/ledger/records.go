package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/menu"
)

// recordFlags holds the raw values of the per-field flags shared by add,
// edit and search.
type recordFlags struct {
	date        string
	category    string
	amount      string
	description string
}

func (f *recordFlags) register(cmd *cobra.Command, verb string) {
	cmd.Flags().StringVar(&f.date, "date", "", verb+" date (YYYY-MM-DD).")
	cmd.Flags().StringVar(&f.category, "category", "", verb+" category (income or expense).")
	cmd.Flags().StringVar(&f.amount, "amount", "", verb+" amount, non-negative.")
	cmd.Flags().StringVar(&f.description, "description", "", verb+" description.")
}

// apply overlays the flags that were set on base and validates the result.
func (f *recordFlags) apply(cmd *cobra.Command, base core.Record) (core.Record, error) {
	r := base
	if cmd.Flags().Changed("date") {
		d, err := core.ParseDate(f.date)
		if err != nil {
			return core.Record{}, err
		}
		r.Date = d
	}
	if cmd.Flags().Changed("category") {
		c, err := core.ParseCategory(f.category)
		if err != nil {
			return core.Record{}, err
		}
		r.Category = c
	}
	if cmd.Flags().Changed("amount") {
		a, err := core.ParseAmount(f.amount)
		if err != nil {
			return core.Record{}, err
		}
		r.Amount = a
	}
	if cmd.Flags().Changed("description") {
		r.Description = f.description
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// criteria turns the flags that were set into search criteria.
func (f *recordFlags) criteria(cmd *cobra.Command) core.Criteria {
	c := core.Criteria{}
	if cmd.Flags().Changed("date") {
		c[core.FieldDate] = f.date
	}
	if cmd.Flags().Changed("category") {
		category := f.category
		if parsed, err := core.ParseCategory(category); err == nil {
			category = parsed.String()
		}
		c[core.FieldCategory] = category
	}
	if cmd.Flags().Changed("amount") {
		c[core.FieldAmount] = f.amount
	}
	if cmd.Flags().Changed("description") {
		c[core.FieldDescription] = f.description
	}
	return c
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show balance, total income and total expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.svc.Balance(cmd.Context())
			if err != nil {
				return err
			}
			menu.RenderBalance(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every record, numbered from 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.svc.Records(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records.")
				return nil
			}
			menu.RenderRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.apply(cmd, core.Record{})
			if err != nil {
				return err
			}
			if err := a.svc.Add(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record added.")
			return nil
		},
	}
	f.register(cmd, "Record")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Replace fields of the record with the given list number",
		Long:  "Replace fields of a record. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record number %q", args[0])
			}
			records, err := a.svc.Records(cmd.Context())
			if err != nil {
				return err
			}
			index := n - 1
			if index < 0 || index >= len(records) {
				return fmt.Errorf("invalid record number %d: ledger has %d records", n, len(records))
			}

			r, err := f.apply(cmd, records[index])
			if err != nil {
				return err
			}
			ok, err := a.svc.Edit(cmd.Context(), index, r)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("record %d no longer exists", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record updated.")
			return nil
		},
	}
	f.register(cmd, "New")
	return cmd
}

// parseFieldCriteria reads name=value pairs into c.
func parseFieldCriteria(pairs []string, c core.Criteria) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --field %q: want name=value", pair)
		}
		field, err := core.ParseField(name)
		if err != nil {
			return err
		}
		c[field] = value
	}
	return nil
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		f     recordFlags
		pairs []string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List records matching every given field exactly",
		Example: "  ledger search --date 2024-01-02 --category expense\n" +
			"  ledger search --field description=food",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := f.criteria(cmd)
			if err := parseFieldCriteria(pairs, c); err != nil {
				return err
			}
			found, err := a.svc.Search(cmd.Context(), c)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing found for your query.")
				return nil
			}
			menu.RenderRecords(cmd.OutOrStdout(), found)
			return nil
		},
	}
	f.register(cmd, "Match")
	cmd.Flags().StringArrayVar(&pairs, "field", nil, fmt.Sprintf("Match name=value, repeatable. Names: %v.", core.Fields()))
	return cmd
}
