package model

import (
	"fmt"
	"sort"
	"strings"
)

// Rule codes attached to FieldValidationError.
const (
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeTooBig        = "too_big"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidType   = "invalid_type"
)

// FieldValidationError is the only validation failure kind. It is stored as
// data and overwritten on every revalidation of its field.
type FieldValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is an aggregate of field errors that implements error.
type Errors []FieldValidationError

// Error summarises the first few entries.
func (errs Errors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(errs)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errs[i].Error())
	}
	if len(errs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(errs))
	}
	return b.String()
}

// Fields returns the failing field names in order.
func (errs Errors) Fields() []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

// ValidationResult maps a field name to its current error message. A missing
// key means the field is valid.
type ValidationResult map[string]string

// Valid reports whether no field carries an error.
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

// Clone copies the result.
func (r ValidationResult) Clone() ValidationResult {
	out := make(ValidationResult, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Errors flattens the result into an Errors slice sorted by field name. Rule
// codes are not retained in a ValidationResult, so Code is empty.
func (r ValidationResult) Errors() Errors {
	if len(r) == 0 {
		return nil
	}
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(Errors, 0, len(names))
	for _, name := range names {
		out = append(out, FieldValidationError{Field: name, Message: r[name]})
	}
	return out
}
