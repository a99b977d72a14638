package schema

import "github.com/goliatone/go-userform/pkg/model"

// Kind is the value kind a field accepts.
type Kind string

const (
	KindText              Kind = "text"
	KindNumericPattern    Kind = "numeric-pattern"
	KindBinaryOrReference Kind = "binary-or-reference"
	KindEnumerated        Kind = "enumerated"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumericPattern, KindBinaryOrReference, KindEnumerated:
		return true
	default:
		return false
	}
}

// accepts reports whether a value variant can be judged by this field's
// rules at all. String kinds never accept blobs or references.
func (k Kind) accepts(v model.ValueKind) bool {
	if k == KindBinaryOrReference {
		return true
	}
	return v == model.KindText || v == model.KindAbsent
}

// FieldSchema is the declarative rule set for a single form field.
type FieldSchema struct {
	Name    string
	Label   string
	Kind    Kind
	Secret  bool
	Options []string
	Rules   []Rule
}

// Violation returns the first rule the value breaks. The boolean is false
// when the value is valid.
func (f FieldSchema) Violation(v model.Value) (model.FieldValidationError, bool) {
	if !f.Kind.accepts(v.Kind()) {
		return model.FieldValidationError{
			Field:   f.Name,
			Code:    model.CodeInvalidType,
			Message: f.fallbackMessage(),
		}, true
	}
	for _, rule := range f.Rules {
		if rule.Allows(v) {
			continue
		}
		return model.FieldValidationError{
			Field:   f.Name,
			Code:    rule.Code(),
			Message: rule.Message,
		}, true
	}
	return model.FieldValidationError{}, false
}

// IsValid reports whether the value satisfies every rule.
func (f FieldSchema) IsValid(v model.Value) bool {
	_, failed := f.Violation(v)
	return !failed
}

// ErrorMessage returns the message of the first failing rule.
func (f FieldSchema) ErrorMessage(v model.Value) (string, bool) {
	verr, failed := f.Violation(v)
	if !failed {
		return "", false
	}
	return verr.Message, true
}

// Required reports whether the field carries a required rule.
func (f FieldSchema) Required() bool {
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequired {
			return true
		}
	}
	return false
}

func (f FieldSchema) fallbackMessage() string {
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequired {
			return rule.Message
		}
	}
	if len(f.Rules) > 0 {
		return f.Rules[0].Message
	}
	return f.displayLabel() + " is invalid"
}

func (f FieldSchema) displayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
