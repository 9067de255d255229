package core

import (
	"errors"
	"fmt"
	"strings"
)

// Field names a searchable record attribute. Values match the JSON keys.
type Field string

const (
	FieldDate        Field = "date"
	FieldCategory    Field = "category"
	FieldAmount      Field = "amount"
	FieldDescription Field = "description"
)

// Criteria maps fields to the exact value a record must carry.
// All criteria must hold for a record to match.
type Criteria map[Field]string

var ErrUnknownField = errors.New("unknown field")

// Fields lists the searchable fields in on-disk order.
func Fields() []Field {
	return []Field{FieldDate, FieldCategory, FieldAmount, FieldDescription}
}

// ParseField maps a user supplied name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Equal compares two records field by field; amounts compare by value.
func (r Record) Equal(o Record) bool {
	return r.Date == o.Date &&
		r.Category == o.Category &&
		r.Amount.Equal(o.Amount) &&
		r.Description == o.Description
}

// Match reports whether r satisfies every criterion. A criterion on a field
// outside the record schema never matches. Amounts compare numerically, so
// "40" matches 40.00.
func Match(r Record, c Criteria) bool {
	for field, want := range c {
		switch field {
		case FieldDate:
			if r.Date != want {
				return false
			}
		case FieldCategory:
			if string(r.Category) != want {
				return false
			}
		case FieldAmount:
			a, err := ParseAmount(want)
			if err != nil || !r.Amount.Equal(a) {
				return false
			}
		case FieldDescription:
			if r.Description != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Filter returns the records matching c, in ledger order. Empty criteria
// match everything.
func Filter(records []Record, c Criteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Match(r, c) {
			out = append(out, r)
		}
	}
	return out
}
