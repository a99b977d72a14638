package submit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
)

// ErrInProgress is returned, with no other effect, when Submit is called
// while a previous submission is still in flight.
var ErrInProgress = errors.New("submit: submission already in progress")

// Sink is the external consumer of a validated record. The controller only
// waits for it to return; its result is reported back to the caller.
type Sink func(ctx context.Context, data model.FormValue) error

// Controller gates submission on full-schema validity and allows at most one
// submission in flight.
type Controller struct {
	store  *form.Store
	sink   Sink
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New binds a store to a sink.
func New(store *form.Store, sink Sink, options ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("submit: store is required")
	}
	if sink == nil {
		return nil, errors.New("submit: sink is required")
	}
	c := &Controller{
		store:  store,
		sink:   sink,
		logger: log.New(io.Discard),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Submit validates the whole record and, when valid, hands the exact
// snapshot it validated to the sink. Validation failures are returned as
// model.Errors without calling the sink; every message becomes visible in
// the store. The in-progress flag is cleared once validation fails or the
// sink returns.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.store.BeginSubmit() {
		return ErrInProgress
	}
	defer c.store.EndSubmit()

	snapshot, errs := c.store.ValidateSnapshot()
	if len(errs) > 0 {
		return errs
	}

	c.logger.Debug("handing record to sink", "fields", len(snapshot))
	if err := c.sink(ctx, snapshot); err != nil {
		return fmt.Errorf("submit: sink: %w", err)
	}
	return nil
}

// InProgress reports whether a submission is in flight.
func (c *Controller) InProgress() bool {
	return c.store.Submitting()
}

// AsErrors extracts validation failures from a Submit error.
func AsErrors(err error) (model.Errors, bool) {
	var errs model.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
