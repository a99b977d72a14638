package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-userform/pkg/model"
)

// ErrUnknownField is returned when a caller names a field the registry does
// not define.
var ErrUnknownField = errors.New("schema: unknown field")

// Registry holds one FieldSchema per field, in declaration order.
type Registry struct {
	fields []FieldSchema
	index  map[string]int
}

// NewRegistry builds a registry. Field names must be non-empty and unique.
func NewRegistry(fields ...FieldSchema) (*Registry, error) {
	r := &Registry{
		fields: make([]FieldSchema, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, errors.New("schema: field name is required")
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", name)
		}
		if !field.Kind.Valid() {
			return nil, fmt.Errorf("schema: field %q: unknown kind %q", name, field.Kind)
		}
		field.Name = name
		r.index[name] = len(r.fields)
		r.fields = append(r.fields, field)
	}
	return r, nil
}

// Field returns the schema for name.
func (r *Registry) Field(name string) (FieldSchema, bool) {
	if r == nil {
		return FieldSchema{}, false
	}
	idx, ok := r.index[name]
	if !ok {
		return FieldSchema{}, false
	}
	return r.fields[idx], true
}

// Fields returns the field schemas in declaration order.
func (r *Registry) Fields() []FieldSchema {
	if r == nil {
		return nil
	}
	return append([]FieldSchema(nil), r.fields...)
}

// Names returns the field names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f.Name)
	}
	return out
}

// ValidateField judges one field in isolation. A nil violation means valid.
func (r *Registry) ValidateField(name string, v model.Value) (*model.FieldValidationError, error) {
	field, ok := r.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	verr, failed := field.Violation(v)
	if !failed {
		return nil, nil
	}
	return &verr, nil
}

// Validate folds every field over the record. Missing keys are judged as
// absent. Violations are returned in declaration order.
func (r *Registry) Validate(values model.FormValue) model.Errors {
	if r == nil {
		return nil
	}
	var out model.Errors
	for _, field := range r.fields {
		if verr, failed := field.Violation(values[field.Name]); failed {
			out = append(out, verr)
		}
	}
	return out
}

// Result is Validate projected onto a ValidationResult.
func (r *Registry) Result(values model.FormValue) model.ValidationResult {
	result := make(model.ValidationResult)
	for _, verr := range r.Validate(values) {
		result[verr.Field] = verr.Message
	}
	return result
}

// Covers checks that the record and the registry name exactly the same
// fields.
func (r *Registry) Covers(values model.FormValue) error {
	var missing, extra []string
	for _, field := range r.fields {
		if _, ok := values[field.Name]; !ok {
			missing = append(missing, field.Name)
		}
	}
	for name := range values {
		if _, ok := r.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "no schema for "+strings.Join(extra, ", "))
	}
	return fmt.Errorf("schema: record does not match registry: %s", strings.Join(parts, "; "))
}
