// Package models defines the core data structures for the account form.
package models

import (
	"errors"
	"maps"
)

// ErrUnknownField is returned when a field name does not belong to FormRecord.
var ErrUnknownField = errors.New("unknown field")

// FormRecord is the payload entered on the create-account screen.
type FormRecord struct {
	// FullName is optional free text.
	FullName string `json:"fullname"`
	// Email is required and must look like local@domain.tld.
	Email string `json:"email" validate:"notblank,simpleemail"`
	// Password is required, alphanumeric and at least 6 characters long.
	Password string `json:"password" validate:"notblank,min=6,alphanum"`
	// RememberMe is the state of the "remember me" checkbox.
	RememberMe bool `json:"rememberMe"`
}

// Field names a single input of FormRecord.
type Field string

const (
	// FieldFullName is the full name input.
	FieldFullName Field = "fullname"
	// FieldEmail is the email input.
	FieldEmail Field = "email"
	// FieldPassword is the password input.
	FieldPassword Field = "password"
	// FieldRememberMe is the remember-me checkbox.
	FieldRememberMe Field = "rememberMe"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldFullName, FieldEmail, FieldPassword, FieldRememberMe}

// ParseField maps an input name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// ErrorSet maps a field to its current validation message.
// A missing key means the field is valid.
type ErrorSet map[Field]string

// Valid reports whether the set holds no errors.
func (e ErrorSet) Valid() bool {
	return len(e) == 0
}

// Clone returns an independent copy of the set.
func (e ErrorSet) Clone() ErrorSet {
	out := make(ErrorSet, len(e))
	maps.Copy(out, e)
	return out
}
