package form

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

// ErrUnknownField is returned when a mutation names a field outside the
// registry.
var ErrUnknownField = schema.ErrUnknownField

type fieldState struct {
	value   model.Value
	touched bool
	dirty   bool
	err     *model.FieldValidationError
}

// Store owns the form's values, per-field flags, error state, preview and
// submission flag. It is safe for concurrent use; every mutation is scoped to
// a single field so updates to different fields never overwrite each other.
type Store struct {
	mu sync.RWMutex

	engine      *Engine
	logger      *log.Logger
	placeholder string
	initial     model.FormValue
	sanitize    func(string) string

	defaults   model.FormValue
	fields     map[string]*fieldState
	submitted  bool
	submitting bool
	preview    string
}

// Option configures a Store.
type Option func(*Store)

// WithMode overrides the trigger policy (ModeAll by default).
func WithMode(mode Mode) Option {
	return func(s *Store) {
		if mode != "" {
			s.engine = NewEngine(s.engine.registry, mode)
		}
	}
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPlaceholder sets the preview shown before any image is ingested.
func WithPlaceholder(preview string) Option {
	return func(s *Store) {
		s.placeholder = preview
	}
}

// WithDefaults replaces the record the store is created with. Without it
// the store starts from DefaultValues.
func WithDefaults(values model.FormValue) Option {
	return func(s *Store) {
		s.initial = values
	}
}

// New creates a store for registry and resets it to its defaults.
func New(registry *schema.Registry, options ...Option) (*Store, error) {
	if registry == nil {
		return nil, errors.New("form: registry is required")
	}
	s := &Store{
		engine: NewEngine(registry, ModeAll),
		logger: log.New(io.Discard),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.initial == nil {
		s.initial = DefaultValues()
	}
	if err := s.Reset(s.initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine returns the validation engine bound to the store.
func (s *Store) Engine() *Engine {
	return s.engine
}

// Reset reinitialises values from defaults, clearing touched, dirty, error
// and submitted state. A submission in flight keeps its in-progress flag
// until it ends. Defaults must name exactly the registry's fields.
func (s *Store) Reset(defaults model.FormValue) error {
	if err := s.engine.registry.Covers(defaults); err != nil {
		return fmt.Errorf("form: reset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaults = make(model.FormValue, len(defaults))
	s.fields = make(map[string]*fieldState, len(defaults))
	for name, value := range defaults {
		value = s.clean(value)
		s.defaults[name] = value
		s.fields[name] = &fieldState{value: value}
	}
	s.submitted = false
	s.preview = s.placeholder
	if ref := defaults["image"]; ref.Kind() == model.KindReference {
		s.preview = ref.String()
	}
	s.logger.Debug("form reset", "fields", len(defaults), "mode", s.engine.mode)
	return nil
}

// SetFieldValue stores value and, when the mode covers change events,
// revalidates the field.
func (s *Store) SetFieldValue(name string, value model.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("form: set %q: %w", name, ErrUnknownField)
	}
	value = s.clean(value)
	state.value = value
	state.touched = true
	state.dirty = !value.Equal(s.defaults[name])
	if s.engine.Runs(TriggerChange) {
		return s.revalidateLocked(name, state)
	}
	return nil
}

// Blur marks the field touched and revalidates it when the mode covers blur
// events.
func (s *Store) Blur(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("form: blur %q: %w", name, ErrUnknownField)
	}
	state.touched = true
	if s.engine.Runs(TriggerBlur) {
		return s.revalidateLocked(name, state)
	}
	return nil
}

// Trigger revalidates one field on demand, regardless of mode.
func (s *Store) Trigger(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("form: trigger %q: %w", name, ErrUnknownField)
	}
	return s.revalidateLocked(name, state)
}

func (s *Store) revalidateLocked(name string, state *fieldState) error {
	verr, err := s.engine.Field(name, state.value)
	if err != nil {
		return err
	}
	state.err = verr
	return nil
}

// ValidateAll runs full-schema validation, stores every field's outcome and
// makes all messages visible. It returns the violations in schema order.
func (s *Store) ValidateAll() model.Errors {
	_, errs := s.ValidateSnapshot()
	return errs
}

// ValidateSnapshot is ValidateAll that also returns the record it judged.
// The copy and the check happen under one lock.
func (s *Store) ValidateSnapshot() (model.FormValue, model.Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.snapshotLocked()
	errs := s.engine.All(values)
	for _, state := range s.fields {
		state.err = nil
	}
	for i := range errs {
		verr := errs[i]
		if state, ok := s.fields[verr.Field]; ok {
			state.err = &verr
		}
	}
	s.submitted = true
	return values, errs
}

// Value returns the current value of a field.
func (s *Store) Value(name string) (model.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.fields[name]
	if !ok {
		return model.Value{}, false
	}
	return state.value, true
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() model.FormValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.FormValue {
	out := make(model.FormValue, len(s.fields))
	for name, state := range s.fields {
		out[name] = state.value
	}
	return out
}

// Errors returns every stored error, visible or not.
func (s *Store) Errors() model.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.ValidationResult)
	for name, state := range s.fields {
		if state.err != nil {
			out[name] = state.err.Message
		}
	}
	return out
}

// VisibleErrors returns the errors of touched fields, or of every field once
// a submit attempt has been made.
func (s *Store) VisibleErrors() model.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.ValidationResult)
	for name, state := range s.fields {
		if state.err == nil {
			continue
		}
		if s.submitted || state.touched {
			out[name] = state.err.Message
		}
	}
	return out
}

// Error returns the stored message for a field.
func (s *Store) Error(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.fields[name]
	if !ok || state.err == nil {
		return "", false
	}
	return state.err.Message, true
}

// Touched reports whether the field has been changed or blurred.
func (s *Store) Touched(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.fields[name]
	return ok && state.touched
}

// Dirty reports whether the field differs from its default.
func (s *Store) Dirty(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.fields[name]
	return ok && state.dirty
}

// Submitted reports whether a full validation pass has run.
func (s *Store) Submitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitted
}

// Submitting reports whether a submission is in flight.
func (s *Store) Submitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// BeginSubmit sets the in-progress flag. It returns false, leaving state
// untouched, when a submission is already in flight.
func (s *Store) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit clears the in-progress flag.
func (s *Store) EndSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// Preview returns the current image preview.
func (s *Store) Preview() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// SetPreview replaces the image preview.
func (s *Store) SetPreview(preview string) {
	s.mu.Lock()
	s.preview = preview
	s.mu.Unlock()
}
