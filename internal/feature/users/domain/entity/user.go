// Package entity defines the domain entities for the users feature.
package entity

import (
	"errors"
	"time"
)

// ErrValidation is returned when a user record violates the schema rules.
// Callers wrap it with the offending field name.
var ErrValidation = errors.New("user validation failed")

// User represents a person record managed by the API.
// ID and CreatedAt are assigned by the persistence layer and never change afterwards.
type User struct {
	// ID is the opaque identifier assigned by the store at creation time.
	ID string

	// Name is required and must not be empty.
	Name string

	// Email is required and must not be empty.
	Email string

	// Age is optional. nil means the field is absent.
	Age *int

	// CreatedAt is the creation timestamp assigned by the store.
	CreatedAt time.Time
}

// Validate checks the required fields the same way the store schema does.
func (u *User) Validate() error {
	if u.Name == "" {
		return &FieldError{Field: "name"}
	}
	if u.Email == "" {
		return &FieldError{Field: "email"}
	}
	return nil
}

// FieldError reports a required field that is missing or empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return "path `" + e.Field + "` is required"
}

// Unwrap lets errors.Is match ErrValidation.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// Optional is a tri-state input value: absent, explicit null, or a value.
// Set is false when the caller did not supply the field at all.
type Optional[T any] struct {
	Value *T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: &v, Set: true}
}

// Null returns an Optional that was supplied as an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UserPatch describes a partial update. Only fields with Set == true are applied.
type UserPatch struct {
	Name  Optional[string]
	Email Optional[string]
	Age   Optional[int]
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Age.Set
}

// Apply merges the supplied fields into u.
// An explicit null on name or email empties the field, which Validate then rejects.
func (p UserPatch) Apply(u *User) {
	if p.Name.Set {
		u.Name = deref(p.Name.Value)
	}
	if p.Email.Set {
		u.Email = deref(p.Email.Value)
	}
	if p.Age.Set {
		if p.Age.Value == nil {
			u.Age = nil
		} else {
			age := *p.Age.Value
			u.Age = &age
		}
	}
}

// Validate runs the schema rules against the updated paths only.
func (p UserPatch) Validate() error {
	if p.Name.Set && deref(p.Name.Value) == "" {
		return &FieldError{Field: "name"}
	}
	if p.Email.Set && deref(p.Email.Value) == "" {
		return &FieldError{Field: "email"}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
