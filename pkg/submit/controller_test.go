package submit_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/submit"
)

func newStore(t *testing.T) *form.Store {
	t.Helper()
	store, err := form.New(schema.Registration())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func fillValid(t *testing.T, store *form.Store) {
	t.Helper()
	img := model.BlobValue("me.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	if err := store.SetFieldValue("image", img); err != nil {
		t.Fatalf("set image: %v", err)
	}
}

func TestSubmit_InvalidRecordSkipsSink(t *testing.T) {
	store := newStore(t)
	var calls int32
	ctrl, err := submit.New(store, func(context.Context, model.FormValue) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	err = ctrl.Submit(context.Background())
	errs, ok := submit.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := model.Errors{{Field: "image", Code: model.CodeRequired, Message: "Image is required!"}}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if calls != 0 {
		t.Fatalf("sink called %d times for invalid record", calls)
	}
	if msg, ok := store.VisibleErrors()["image"]; !ok || msg != "Image is required!" {
		t.Fatalf("image error not visible after submit: %v", store.VisibleErrors())
	}
	if ctrl.InProgress() {
		t.Fatalf("in-progress flag left set after rejection")
	}
}

func TestSubmit_AnyInvalidFieldBlocks(t *testing.T) {
	cases := []struct {
		field string
		value model.Value
		msg   string
	}{
		{"email", model.Text("nope"), "Invalid email format"},
		{"mobile", model.Text("12345"), "Mobile number must be exactly 10 digits"},
		{"pincode", model.Text("12a456"), "Pincode must be exactly 6 digits"},
		{"password", model.Text("12345"), "Password must be at least 6 characters"},
		{"fullName", model.Text(""), "Full Name is required!"},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			store := newStore(t)
			fillValid(t, store)
			if err := store.SetFieldValue(tc.field, tc.value); err != nil {
				t.Fatalf("set %s: %v", tc.field, err)
			}
			called := false
			ctrl, _ := submit.New(store, func(context.Context, model.FormValue) error {
				called = true
				return nil
			})
			errs, ok := submit.AsErrors(ctrl.Submit(context.Background()))
			if !ok || called {
				t.Fatalf("expected rejection without sink call, ok=%v called=%v", ok, called)
			}
			if got := errs.Fields(); len(got) != 1 || got[0] != tc.field {
				t.Fatalf("failing fields = %v", got)
			}
			if errs[0].Message != tc.msg {
				t.Fatalf("message = %q, want %q", errs[0].Message, tc.msg)
			}
		})
	}
}

func TestSubmit_ValidRecordReachesSink(t *testing.T) {
	store := newStore(t)
	fillValid(t, store)

	var got model.FormValue
	ctrl, _ := submit.New(store, func(_ context.Context, data model.FormValue) error {
		got = data
		return nil
	})
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got == nil {
		t.Fatalf("sink not called")
	}
	if got["fullName"].String() != "raja ji" || got["image"].Kind() != model.KindBlob {
		t.Fatalf("unexpected snapshot: %v", got.Plain())
	}
	if ctrl.InProgress() {
		t.Fatalf("in-progress flag left set after success")
	}
}

func TestSubmit_SecondAttemptWhileInFlight(t *testing.T) {
	store := newStore(t)
	fillValid(t, store)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	ctrl, _ := submit.New(store, func(context.Context, model.FormValue) error {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	var first error
	go func() {
		defer wg.Done()
		first = ctrl.Submit(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink never entered")
	}
	if !ctrl.InProgress() {
		t.Fatalf("expected in-progress while sink runs")
	}
	if err := ctrl.Submit(context.Background()); !errors.Is(err, submit.ErrInProgress) {
		t.Fatalf("second submit = %v, want ErrInProgress", err)
	}

	close(release)
	wg.Wait()
	if first != nil {
		t.Fatalf("first submit: %v", first)
	}
	if calls != 1 {
		t.Fatalf("sink called %d times, want 1", calls)
	}
	if ctrl.InProgress() {
		t.Fatalf("in-progress flag left set")
	}
}

func TestSubmit_SinkFailureIsReported(t *testing.T) {
	store := newStore(t)
	fillValid(t, store)

	boom := errors.New("boom")
	ctrl, _ := submit.New(store, func(context.Context, model.FormValue) error { return boom })

	err := ctrl.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}
	if _, ok := submit.AsErrors(err); ok {
		t.Fatalf("sink failure reported as validation errors")
	}
	if ctrl.InProgress() {
		t.Fatalf("in-progress flag left set after sink failure")
	}
	if err := ctrl.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("retry after failure = %v", err)
	}
}

func TestNew_RequiresStoreAndSink(t *testing.T) {
	if _, err := submit.New(nil, submit.LogSink(log.Default())); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := submit.New(newStore(t), nil); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}

func TestLogSink_SummarisesBlobs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.NewWithOptions(buf, log.Options{Prefix: "userform"})

	store := newStore(t)
	fillValid(t, store)
	ctrl, _ := submit.New(store, submit.LogSink(logger))
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"userData submit", "me.png", "image/png", "abc@gmail.com"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSubmit_SinkOnlySeesTheValidatedRecord(t *testing.T) {
	reg := schema.Registration()
	store := newStore(t)
	fillValid(t, store)

	var bad int32
	ctrl, _ := submit.New(store, func(_ context.Context, data model.FormValue) error {
		if errs := reg.Validate(data); len(errs) > 0 {
			atomic.AddInt32(&bad, 1)
		}
		return nil
	})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		values := []model.Value{model.Text("1"), model.Text("0123456789")}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = store.SetFieldValue("mobile", values[i%2])
		}
	}()

	for i := 0; i < 5000; i++ {
		_ = ctrl.Submit(context.Background())
	}
	close(stop)
	wg.Wait()

	if bad != 0 {
		t.Fatalf("sink received %d records that fail validation", bad)
	}
}

func TestSubmit_ResetDuringSubmitKeepsSingleFlight(t *testing.T) {
	store := newStore(t)
	fillValid(t, store)

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	var calls int32
	ctrl, _ := submit.New(store, func(context.Context, model.FormValue) error {
		atomic.AddInt32(&calls, 1)
		entered <- struct{}{}
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ctrl.Submit(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink never entered")
	}

	if err := store.Reset(form.DefaultValues()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	fillValid(t, store)
	if err := ctrl.Submit(context.Background()); !errors.Is(err, submit.ErrInProgress) {
		t.Fatalf("submit after reset = %v, want ErrInProgress", err)
	}

	close(release)
	wg.Wait()
	if calls != 1 {
		t.Fatalf("sink called %d times, want 1", calls)
	}
	if ctrl.InProgress() {
		t.Fatalf("in-progress flag left set")
	}
}

func TestSubmit_MarkupOnlyRequiredFieldIsRejected(t *testing.T) {
	store, err := form.New(schema.Registration(), form.WithSanitizer(form.StripMarkup))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fillValid(t, store)
	if err := store.SetFieldValue("fullName", model.Text("<script>x</script>")); err != nil {
		t.Fatalf("set fullName: %v", err)
	}

	buf := &bytes.Buffer{}
	ctrl, _ := submit.New(store, submit.WriterSink(buf))
	err = ctrl.Submit(context.Background())
	errs, ok := submit.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"fullName"}, errs.Fields()); diff != "" {
		t.Fatalf("failing fields (-want +got):\n%s", diff)
	}
	if buf.Len() != 0 {
		t.Fatalf("sink wrote output for a rejected record:\n%s", buf.String())
	}
}
