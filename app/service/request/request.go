// Package request contains payload types accepted by the application service
package request

import (
	"bytes"
	"encoding/json"
)

// Create contains fields for a new application. Nil means the field was omitted or sent as null.
type Create struct {
	Company        string  `json:"company" yaml:"company"`
	RoleTitle      string  `json:"role_title" yaml:"role_title"`
	City           *string `json:"city" yaml:"city"`
	WorkMode       *string `json:"work_mode" yaml:"work_mode"`
	Status         *string `json:"status" yaml:"status"`
	DateApplied    *string `json:"date_applied" yaml:"date_applied"`
	LastFollowUp   *string `json:"last_follow_up" yaml:"last_follow_up"`
	NextActionDate *string `json:"next_action_date" yaml:"next_action_date"`
	JobLink        *string `json:"job_link" yaml:"job_link"`
	ContactName    *string `json:"contact_name" yaml:"contact_name"`
	ContactEmail   *string `json:"contact_email" yaml:"contact_email"`
	Notes          *string `json:"notes" yaml:"notes"`
}

// Patch contains fields of a partial update. Each field distinguishes between
// omitted, explicit null and a value, see Field.
type Patch struct {
	Company        Field[string] `json:"company"`
	RoleTitle      Field[string] `json:"role_title"`
	City           Field[string] `json:"city"`
	WorkMode       Field[string] `json:"work_mode"`
	Status         Field[string] `json:"status"`
	DateApplied    Field[string] `json:"date_applied"`
	LastFollowUp   Field[string] `json:"last_follow_up"`
	NextActionDate Field[string] `json:"next_action_date"`
	JobLink        Field[string] `json:"job_link"`
	ContactName    Field[string] `json:"contact_name"`
	ContactEmail   Field[string] `json:"contact_email"`
	Notes          Field[string] `json:"notes"`
}

// Field is an optional patch value with three states: unset (zero Field), null and value
type Field[T any] struct {
	Set   bool // key present in payload
	Null  bool // present with null value
	Value T
}

// Val makes a Field set to v
func Val[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// Null makes a Field set to null
func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

// HasValue reports whether the field is present with non-null value
func (f Field[T]) HasValue() bool { return f.Set && !f.Null }

// UnmarshalJSON is called only for keys present in the payload, including explicit null
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}
