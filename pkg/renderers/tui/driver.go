package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes one free-text answer. Secret answers are read
// without echo and never prefilled.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Secret    bool
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single-choice prompt over a field's options.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// PromptDriver is the terminal seen by the fill loop. Tests script it; the
// CLI uses the survey implementation.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// DriverOption configures the survey driver.
type DriverOption func(*surveyDriver)

// WithInfoWriter sends Info messages to w instead of stdout.
func WithInfoWriter(w io.Writer) DriverOption {
	return func(d *surveyDriver) {
		if w != nil {
			d.info = w
		}
	}
}

// WithStdio binds prompts to the given terminal streams.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) DriverOption {
	return func(d *surveyDriver) {
		d.stdio = &terminal.Stdio{In: in, Out: out, Err: errOut}
	}
}

// WithErrorIcon replaces survey's inline error marker, so prompt errors and
// renderer messages share a prefix.
func WithErrorIcon(icon string) DriverOption {
	return func(d *surveyDriver) {
		d.errorIcon = strings.TrimSpace(icon)
	}
}

type surveyDriver struct {
	info      io.Writer
	stdio     *terminal.Stdio
	errorIcon string
}

// NewSurveyDriver returns the interactive driver.
func NewSurveyDriver(options ...DriverOption) PromptDriver {
	d := &surveyDriver{info: os.Stdout}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *surveyDriver) askOpts(validator func(string) error) []survey.AskOpt {
	var opts []survey.AskOpt
	if d.stdio != nil {
		opts = append(opts, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err))
	}
	if d.errorIcon != "" {
		icon := d.errorIcon
		opts = append(opts, survey.WithIcons(func(icons *survey.IconSet) {
			icons.Error.Text = icon
		}))
	}
	if validator != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validator(s)
		}))
	}
	return opts
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var prompt survey.Prompt
	if cfg.Secret {
		prompt = &survey.Password{Message: cfg.Message, Help: cfg.Help}
	} else {
		prompt = &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	}
	var out string
	if err := survey.AskOne(prompt, &out, d.askOpts(cfg.Validator)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.askOpts(nil)...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// Select returns the chosen index. An empty option list never reaches survey,
// which would fail on it.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(cfg.Options) == 0 {
		return -1, nil
	}
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	var out int
	if err := survey.AskOne(prompt, &out, d.askOpts(nil)...); err != nil {
		return 0, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.info, msg)
	return err
}

// translateSurveyErr maps Ctrl-C and Ctrl-D onto ErrAborted.
func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
