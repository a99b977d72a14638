package userform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/submit"
)

func TestForm_EndToEnd(t *testing.T) {
	var got model.FormValue
	f, err := New(
		WithPlaceholder("default.png"),
		WithSink(func(_ context.Context, data model.FormValue) error {
			got = data
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if f.Store.Preview() != "default.png" {
		t.Fatalf("placeholder preview = %q", f.Store.Preview())
	}

	err = f.Submit(context.Background())
	if errs, ok := submit.AsErrors(err); !ok || len(errs) != 1 || errs[0].Field != "image" {
		t.Fatalf("expected only image to fail, got %v", err)
	}

	task, err := f.Set("image", model.BlobValue("me.png", "image/png", []byte("png")))
	if err != nil {
		t.Fatalf("set image: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := task.Wait(ctx); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if f.Store.Preview() != "data:image/png;base64,cG5n" {
		t.Fatalf("preview = %q", f.Store.Preview())
	}

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got["gender"].String() != "Male" {
		t.Fatalf("unexpected record: %v", got.Plain())
	}
}

func TestForm_SetTextFieldHasNoPreviewTask(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	task, err := f.Set("email", model.Text("bad"))
	if err != nil || task != nil {
		t.Fatalf("task=%v err=%v", task, err)
	}
	if msg, _ := f.Store.Error("email"); msg != "Invalid email format" {
		t.Fatalf("email error = %q", msg)
	}
	if _, err := f.Set("nickname", model.Text("x")); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}
