package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

// Trigger is the interaction that asks for validation.
type Trigger int

const (
	TriggerChange Trigger = iota
	TriggerBlur
	TriggerSubmit
)

func (t Trigger) String() string {
	switch t {
	case TriggerChange:
		return "change"
	case TriggerBlur:
		return "blur"
	case TriggerSubmit:
		return "submit"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// Mode selects which triggers revalidate a field. Submit always validates
// every field regardless of mode.
type Mode string

const (
	ModeAll      Mode = "all"
	ModeOnChange Mode = "onChange"
	ModeOnBlur   Mode = "onBlur"
	ModeOnSubmit Mode = "onSubmit"
)

// ParseMode accepts the mode names case-insensitively; empty means ModeAll.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return ModeAll, nil
	case "onchange", "change":
		return ModeOnChange, nil
	case "onblur", "blur":
		return ModeOnBlur, nil
	case "onsubmit", "submit":
		return ModeOnSubmit, nil
	default:
		return "", fmt.Errorf("form: unknown validation mode %q", raw)
	}
}

// Engine applies registry rules according to a trigger policy.
type Engine struct {
	registry *schema.Registry
	mode     Mode
}

// NewEngine binds a registry to a mode. An empty mode means ModeAll.
func NewEngine(registry *schema.Registry, mode Mode) *Engine {
	if mode == "" {
		mode = ModeAll
	}
	return &Engine{registry: registry, mode: mode}
}

// Mode reports the configured trigger policy.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Registry exposes the bound schema registry.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Runs reports whether the trigger causes revalidation under the mode.
func (e *Engine) Runs(t Trigger) bool {
	switch t {
	case TriggerSubmit:
		return true
	case TriggerChange:
		return e.mode == ModeAll || e.mode == ModeOnChange
	case TriggerBlur:
		return e.mode == ModeAll || e.mode == ModeOnBlur
	default:
		return false
	}
}

// Field validates a single field in isolation.
func (e *Engine) Field(name string, v model.Value) (*model.FieldValidationError, error) {
	return e.registry.ValidateField(name, v)
}

// All validates every registered field.
func (e *Engine) All(values model.FormValue) model.Errors {
	return e.registry.Validate(values)
}
