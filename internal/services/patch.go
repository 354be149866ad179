package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// Field tracks JSON presence for partial updates. An omitted field leaves
// Set false; an explicit null (or a value) flips it. With a pointer value
// type this distinguishes "leave the binding alone" from "clear it".
type Field[T any] struct {
	Set   bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Amount accepts a JSON number or a loosely formatted string; the raw
// text is normalized later through core.ParseAmount.
type Amount struct {
	Raw   string
	Valid bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		a.Raw = s
		a.Valid = true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	a.Raw = n.String()
	a.Valid = true
	return nil
}

// Normalize parses and rounds the amount per the currency rules.
func (a Amount) Normalize() (float64, error) {
	if !a.Valid {
		return 0, core.ErrInvalidAmount
	}
	v, err := core.ParseAmount(a.Raw)
	if err != nil {
		return 0, err
	}
	return core.Round(v), nil
}

// AmountOf builds an Amount from a known decimal, for callers constructing
// payloads in code rather than from JSON.
func AmountOf(v float64) Amount {
	return Amount{Raw: fmt.Sprintf("%.2f", v), Valid: true}
}

const dateLayout = "2006-01-02"

// parseDate accepts an ISO calendar date, falling back to RFC 3339 for
// clients that send full timestamps. The result is truncated to UTC date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
