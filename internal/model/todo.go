package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Todo is a to-do item owned by exactly one user.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OptionalString distinguishes an absent JSON key from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type OptionalString struct {
	Set   bool
	Value *string
}

// NewOptionalString returns a set OptionalString holding s.
func NewOptionalString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// NullString returns a set OptionalString holding null.
func NullString() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON is only invoked when the key is present, including for null.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// TodoUpdate is a partial update of the mutable todo fields.
// A nil pointer (or unset OptionalString) leaves the column untouched.
type TodoUpdate struct {
	Title       *string
	Description OptionalString
	Completed   *bool
}

// IsEmpty reports whether no field is present.
func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && !u.Description.Set && u.Completed == nil
}
