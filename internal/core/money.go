// Package core provides money parsing and handling utilities.
//
// This file contains the Amount type used for every record amount. It is
// backed by an arbitrary-precision decimal so that sums over a ledger do not
// drift the way float64 sums do.
package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value without currency.
// The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// NewAmount returns an Amount from an integer and a decimal exponent,
// e.g. NewAmount(1234, -2) is 12.34.
func NewAmount(value int64, exp int32) Amount {
	return Amount{d: decimal.New(value, exp)}
}

// AmountFromInt returns a whole-unit amount.
func AmountFromInt(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// AmountFromDecimal wraps d without validation; stores use it to rebuild
// persisted amounts as they were written.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// ParseAmount parses a decimal string into an Amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values and anything that is not a plain decimal are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> 0, nil
//	ParseAmount("-1")    -> error
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	a := Amount{d: d}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// Validate rejects negative amounts.
func (a Amount) Validate() error {
	if a.d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, a.d.String())
	}
	return nil
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) IsZero() bool        { return a.d.IsZero() }
func (a Amount) IsNegative() bool    { return a.d.IsNegative() }

// Decimal exposes the underlying value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String returns the shortest exact decimal representation.
func (a Amount) String() string { return a.d.String() }

// StringFixed returns the amount rounded to places decimals, for display.
func (a Amount) StringFixed(places int32) string { return a.d.StringFixed(places) }

// Float64 is for consumers that can only take a float, such as spreadsheets.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON reads a JSON number. A quoted number is accepted too.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(string(bytes.Trim(data, `"`)))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	a.d = d
	return nil
}
