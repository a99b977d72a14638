package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/preview"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/submit"
	"github.com/goliatone/go-userform/pkg/validation"
)

// rejectedError reports a record that failed validation. The violations have
// already been printed.
type rejectedError struct {
	count int
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("record rejected: %d invalid field(s)", e.count)
}

func newValidateCmd(a *app) *cobra.Command {
	var crossCheck bool
	cmd := &cobra.Command{
		Use:   "validate <record.yaml|record.json|->",
		Short: "Validate a recorded submission and print it when accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			record, err := readRecord(args[0], cmd.InOrStdin(), reg)
			if err != nil {
				return err
			}
			if crossCheck {
				for _, issue := range validation.ValidateRecord(reg, record).Issues {
					a.logger.Warn("projection rejects record", "field", issue.Field, "message", issue.Message)
				}
			}
			return a.validateRecord(cmd.Context(), cmd.OutOrStdout(), reg, record)
		},
	}
	cmd.Flags().BoolVar(&crossCheck, "cross-check", false, "also check the record against the exported OpenAPI schema")
	return cmd
}

func (a *app) validateRecord(ctx context.Context, out io.Writer, reg *schema.Registry, record model.FormValue) error {
	opts := []form.Option{
		form.WithMode(a.cfg.Mode),
		form.WithDefaults(record),
		form.WithLogger(a.logger),
	}
	if a.cfg.Sanitize {
		opts = append(opts, form.WithSanitizer(form.StripMarkup))
	}
	store, err := form.New(reg, opts...)
	if err != nil {
		return err
	}

	ctrl, err := submit.New(store, submit.WriterSink(out), submit.WithLogger(a.logger))
	if err != nil {
		return err
	}

	err = ctrl.Submit(ctx)
	errs, rejected := submit.AsErrors(err)
	if !rejected {
		return err
	}
	if err := writeViolations(out, a.cfg.OutputFormat, errs); err != nil {
		return err
	}
	return &rejectedError{count: len(errs)}
}

func writeViolations(w io.Writer, format tui.OutputFormat, errs model.Errors) error {
	if format == tui.OutputFormatJSON {
		payload, err := json.MarshalIndent(map[string]any{"errors": errs}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode violations: %w", err)
		}
		_, err = fmt.Fprintln(w, string(payload))
		return err
	}
	for _, verr := range errs {
		if _, err := fmt.Fprintf(w, "%s: %s\n", verr.Field, verr.Message); err != nil {
			return err
		}
	}
	return nil
}

// readRecord decodes a YAML or JSON record. Fields missing from the file are
// absent. An image given as a plain string is a URL when it has a scheme and
// otherwise a file path relative to the record.
func readRecord(path string, stdin io.Reader, reg *schema.Registry) (model.FormValue, error) {
	var (
		data []byte
		err  error
		base string
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
		base = "."
	} else {
		data, err = os.ReadFile(path)
		base = filepath.Dir(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	// Scalars are kept as written so "0123456789" is not read as a number.
	raw := map[string]yaml.Node{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	record := make(model.FormValue, len(reg.Names()))
	for _, field := range reg.Fields() {
		node, ok := raw[field.Name]
		delete(raw, field.Name)
		if !ok || node.Tag == "!!null" {
			record[field.Name] = model.Absent()
			continue
		}
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("decode record: field %q must be a scalar", field.Name)
		}
		text := node.Value
		if field.Kind != schema.KindBinaryOrReference {
			record[field.Name] = model.Text(text)
			continue
		}
		if text == "" || preview.IsExternal(text) {
			record[field.Name] = model.Reference(text)
			continue
		}
		if !filepath.IsAbs(text) {
			text = filepath.Join(base, text)
		}
		blob, err := preview.LoadFile(text)
		if err != nil {
			return nil, err
		}
		record[field.Name] = blob
	}
	if len(raw) > 0 {
		extra := make([]string, 0, len(raw))
		for name := range raw {
			extra = append(extra, name)
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("decode record: %w: %s", schema.ErrUnknownField, strings.Join(extra, ", "))
	}
	return record, nil
}
