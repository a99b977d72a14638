// Package userform assembles the registration form: field schema registry,
// validation engine, form state store, image preview ingestion and the
// submission controller. Callers that only need one layer can import the
// packages under pkg/ directly.
package userform

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/preview"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/submit"
)

// Value aliases model.Value for callers that only import the root package.
type Value = model.Value

// ErrUnknownField is returned when a field name is not in the registry.
var ErrUnknownField = schema.ErrUnknownField

// Form is a ready to use registration form.
type Form struct {
	Registry   *schema.Registry
	Store      *form.Store
	Previews   *preview.Ingestor
	Controller *submit.Controller
}

type config struct {
	registry    *schema.Registry
	mode        form.Mode
	defaults    model.FormValue
	placeholder string
	thumbnail   uint
	sink        submit.Sink
	logger      *log.Logger
}

// Option configures New.
type Option func(*config)

// WithRegistry replaces the built-in registration schema.
func WithRegistry(reg *schema.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithMode sets the validation trigger policy.
func WithMode(mode form.Mode) Option {
	return func(c *config) { c.mode = mode }
}

// WithDefaults sets the record the form starts from.
func WithDefaults(values model.FormValue) Option {
	return func(c *config) { c.defaults = values }
}

// WithPlaceholder sets the preview shown before an image is chosen.
func WithPlaceholder(p string) Option {
	return func(c *config) { c.placeholder = p }
}

// WithThumbnail bounds image previews to size pixels per side.
func WithThumbnail(size uint) Option {
	return func(c *config) { c.thumbnail = size }
}

// WithSink sets the consumer of accepted records. Without it records are
// logged.
func WithSink(sink submit.Sink) Option {
	return func(c *config) { c.sink = sink }
}

// WithLogger routes diagnostics of every layer to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wires the layers together.
func New(options ...Option) (*Form, error) {
	cfg := config{
		logger: log.New(io.Discard),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = schema.Registration()
	}
	if cfg.sink == nil {
		cfg.sink = submit.LogSink(cfg.logger)
	}

	storeOpts := []form.Option{
		form.WithMode(cfg.mode),
		form.WithPlaceholder(cfg.placeholder),
		form.WithLogger(cfg.logger),
	}
	if cfg.defaults != nil {
		storeOpts = append(storeOpts, form.WithDefaults(cfg.defaults))
	}
	store, err := form.New(cfg.registry, storeOpts...)
	if err != nil {
		return nil, err
	}

	ctrl, err := submit.New(store, cfg.sink, submit.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}

	return &Form{
		Registry:   cfg.registry,
		Store:      store,
		Previews:   preview.New(store, preview.WithThumbnail(cfg.thumbnail), preview.WithLogger(cfg.logger)),
		Controller: ctrl,
	}, nil
}

// Set updates a field. Values of binary-or-reference fields also start a
// preview conversion; the returned task is nil for other fields.
func (f *Form) Set(name string, v Value) (*preview.Task, error) {
	if err := f.Store.SetFieldValue(name, v); err != nil {
		return nil, err
	}
	field, _ := f.Registry.Field(name)
	if field.Kind != schema.KindBinaryOrReference {
		return nil, nil
	}
	return f.Previews.IngestValue(v), nil
}

// Blur reports that the user left a field.
func (f *Form) Blur(name string) error {
	return f.Store.Blur(name)
}

// Submit runs the submission controller.
func (f *Form) Submit(ctx context.Context) error {
	return f.Controller.Submit(ctx)
}
