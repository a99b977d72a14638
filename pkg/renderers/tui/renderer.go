package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/preview"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/submit"
)

// Renderer fills a form store from terminal prompts and submits it.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	sink              submit.Sink
	sanitize          bool
	confirm           bool
	logger            *log.Logger
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		logger:       log.New(io.Discard),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field in schema order, posts image previews
// through ingestor (which may be nil) and submits the store. When the
// submission is rejected the failing fields are asked again. The accepted
// record is returned serialized in the configured output format.
func (r *Renderer) Render(ctx context.Context, store *form.Store, ingestor *preview.Ingestor) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("tui: form store is required")
	}

	var out []byte
	accept := func(ctx context.Context, data model.FormValue) error {
		values := data.Plain()
		if r.submitTransformer != nil {
			var err error
			values, err = r.submitTransformer(values)
			if err != nil {
				return fmt.Errorf("tui: submit transformer: %w", err)
			}
		}
		payload, err := r.serialize(values)
		if err != nil {
			return err
		}
		out = payload
		if r.sink != nil {
			return r.sink(ctx, data)
		}
		return nil
	}
	ctrl, err := submit.New(store, accept, submit.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	registry := store.Engine().Registry()
	pending := registry.Fields()
	for {
		var tasks []*preview.Task
		for _, field := range pending {
			task, err := r.promptField(ctx, store, ingestor, field)
			if err != nil {
				return nil, err
			}
			if task != nil {
				tasks = append(tasks, task)
			}
		}
		if err := r.awaitPreviews(ctx, store, tasks); err != nil {
			return nil, err
		}

		if r.confirm {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrAborted
			}
		}

		err := ctrl.Submit(ctx)
		if err == nil {
			return out, nil
		}
		errs, ok := submit.AsErrors(err)
		if !ok {
			return nil, err
		}
		for _, verr := range errs {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+verr.Error())
		}
		pending = fieldsNamed(registry, errs.Fields())
	}
}

func (r *Renderer) promptField(ctx context.Context, store *form.Store, ingestor *preview.Ingestor, field schema.FieldSchema) (*preview.Task, error) {
	engine := store.Engine()
	live := engine.Runs(form.TriggerChange) || engine.Runs(form.TriggerBlur)

	for {
		current, _ := store.Value(field.Name)
		value, err := r.ask(ctx, field, current)
		if errors.Is(err, ErrInvalidImage) {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		if r.sanitize && value.Kind() == model.KindText {
			value = model.Text(form.StripMarkup(value.String()))
		}

		if err := store.SetFieldValue(field.Name, value); err != nil {
			return nil, err
		}
		if err := store.Blur(field.Name); err != nil {
			return nil, err
		}
		if live {
			if msg, bad := store.VisibleErrors()[field.Name]; bad {
				_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
				continue
			}
		}

		if field.Kind == schema.KindBinaryOrReference && ingestor != nil {
			return ingestor.IngestValue(value), nil
		}
		return nil, nil
	}
}

func (r *Renderer) ask(ctx context.Context, field schema.FieldSchema, current model.Value) (model.Value, error) {
	label := displayLabel(field)

	switch {
	case len(field.Options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current.String()),
			Help:         fieldHelp(field),
		})
		if err != nil {
			return model.Value{}, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return model.Text(""), nil
		}
		return model.Text(field.Options[idx]), nil

	case field.Kind == schema.KindBinaryOrReference:
		help := "path to a local file or an http(s) URL"
		if extra := fieldHelp(field); extra != "" {
			help += "; " + extra
		}
		cfg := InputConfig{Message: label, Help: help}
		if current.Kind() == model.KindReference {
			cfg.Default = current.String()
		}
		resp, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return model.Value{}, err
		}
		return parseImageAnswer(resp)

	default:
		cfg := InputConfig{Message: label, Help: fieldHelp(field), Secret: field.Secret}
		if !field.Secret {
			cfg.Default = current.String()
		}
		resp, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return model.Value{}, err
		}
		return model.Text(resp), nil
	}
}

func (r *Renderer) awaitPreviews(ctx context.Context, store *form.Store, tasks []*preview.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, task := range tasks {
		if _, err := task.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Debug("no preview for upload", "error", err)
		}
	}
	if p := store.Preview(); p != "" {
		_ = r.driver.Info(ctx, fmt.Sprintf("%sPreview: %.60s", r.theme.InfoPrefix, p))
	}
	return nil
}

func parseImageAnswer(raw string) (model.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Absent(), nil
	}
	if preview.IsExternal(raw) {
		return model.Reference(raw), nil
	}
	v, err := preview.LoadFile(raw)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return v, nil
}

func fieldsNamed(registry *schema.Registry, names []string) []schema.FieldSchema {
	out := make([]schema.FieldSchema, 0, len(names))
	for _, name := range names {
		if field, ok := registry.Field(name); ok {
			out = append(out, field)
		}
	}
	return out
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return jsonBytes(values)
	}
}

// fieldHelp lists the constraints beyond presence, in rule order.
func fieldHelp(field schema.FieldSchema) string {
	var parts []string
	for _, rule := range field.Rules {
		if rule.Kind == schema.RuleRequired {
			continue
		}
		parts = append(parts, rule.Message)
	}
	return strings.Join(parts, "; ")
}

func displayLabel(field schema.FieldSchema) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func jsonBytes(values map[string]any) ([]byte, error) {
	out, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("tui: encode json: %w", err)
	}
	return out, nil
}
