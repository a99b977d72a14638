package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestSurveyDriver_InfoUsesConfiguredWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	d := NewSurveyDriver(WithInfoWriter(buf))
	if err := d.Info(context.Background(), "› Preview: data:image/png"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if buf.String() != "› Preview: data:image/png\n" {
		t.Fatalf("info output = %q", buf.String())
	}
}

func TestSurveyDriver_SelectWithoutOptions(t *testing.T) {
	d := NewSurveyDriver(WithInfoWriter(io.Discard))
	idx, err := d.Select(context.Background(), SelectConfig{Message: "Gender"})
	if err != nil || idx != -1 {
		t.Fatalf("select = (%d, %v), want (-1, nil)", idx, err)
	}
}

func TestSurveyDriver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewSurveyDriver(WithInfoWriter(io.Discard))
	if _, err := d.Input(ctx, InputConfig{Message: "Full Name"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("input err = %v", err)
	}
	if err := d.Info(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("info err = %v", err)
	}
}

func TestSurveyDriver_ErrorIconIsTrimmed(t *testing.T) {
	d := NewSurveyDriver(WithErrorIcon("✗ ")).(*surveyDriver)
	if d.errorIcon != "✗" {
		t.Fatalf("error icon = %q", d.errorIcon)
	}
	if got := len(d.askOpts(func(string) error { return nil })); got != 2 {
		t.Fatalf("ask options = %d, want icon and validator", got)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		in   error
		want error
	}{
		{terminal.InterruptErr, ErrAborted},
		{io.EOF, ErrAborted},
		{fmt.Errorf("read: %w", io.EOF), ErrAborted},
		{boom, boom},
	}
	for _, tc := range cases {
		if got := translateSurveyErr(tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("translateSurveyErr(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
