package model

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch field that tells "absent" apart from "null".
// Set is true when the key appeared in the payload; Valid is false when it was null.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Null returns a Nullable explicitly set to null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a Nullable set to v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Valid = false
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil for null, a pointer to the value otherwise.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Get returns the value and whether a non-null value was sent.
func (n Nullable[T]) Get() (T, bool) {
	return n.Value, n.Set && n.Valid
}

// ValueOrNil unwraps the value for the validator as a *T, nil for null
// and absent, so tags treat it like a plain pointer field.
func (n Nullable[T]) ValueOrNil() any {
	return n.Ptr()
}

// Apply overwrites *dst when the field was present in the payload.
func (n Nullable[T]) Apply(dst **T) {
	if n.Set {
		*dst = n.Ptr()
	}
}

// notNull records a problem when a column that cannot be null was sent as null.
func notNull[T any](problems []FieldProblem, field, want string, n Nullable[T]) []FieldProblem {
	if n.Set && !n.Valid {
		problems = append(problems, FieldProblem{
			Field:   field,
			Code:    "invalid_type",
			Message: "Expected " + want + ", received null",
		})
	}
	return problems
}
