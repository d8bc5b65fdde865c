package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount with two fraction digits, matching numeric(10,2).
// It serializes to JSON as a string ("3500.00") and accepts a string or a
// number on input.
type Money struct {
	decimal.Decimal
}

// NewMoney parses s strictly.
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d.Round(2)}, nil
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyOrZero parses s and falls back to zero when it is not a number.
func MoneyOrZero(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		return Money{}
	}
	return m
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// String renders m with exactly two fraction digits.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON reports failures as a *DecodeError on the "amount" field,
// the only name money travels under in a payload.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return &DecodeError{Field: "amount", Err: errors.New("amount must not be null")}
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return &DecodeError{Field: "amount", Err: err}
		}
	}
	parsed, err := NewMoney(raw)
	if err != nil {
		return &DecodeError{Field: "amount", Err: err}
	}
	*m = parsed
	return nil
}

// DecodeError is a payload value that could not be decoded into its field.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
