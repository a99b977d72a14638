package schema_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

func TestRegistration_EmptyStringYieldsOnlyRequiredMessage(t *testing.T) {
	reg := schema.Registration()

	want := map[string]string{
		"fullName": "Full Name is required!",
		"address":  "Address is required!",
		"gender":   "Gender is required!",
		"email":    "Email is required!",
		"mobile":   "Mobile is required!",
		"pincode":  "Pincode is required!",
		"password": "Password is required!",
	}
	for name, message := range want {
		verr, err := reg.ValidateField(name, model.Text(""))
		if err != nil {
			t.Fatalf("validate %s: %v", name, err)
		}
		if verr == nil {
			t.Fatalf("%s: expected an error for empty string", name)
		}
		if verr.Message != message || verr.Code != model.CodeRequired {
			t.Fatalf("%s: got %+v, want required %q", name, verr, message)
		}
	}
}

func TestRegistration_TextRules(t *testing.T) {
	reg := schema.Registration()

	cases := []struct {
		field string
		value string
		want  string
	}{
		{"mobile", "0123456789", ""},
		{"mobile", "12345", "Mobile number must be exactly 10 digits"},
		{"mobile", "12345678901", "Mobile number must be exactly 10 digits"},
		{"mobile", "01234a6789", "Mobile number must be exactly 10 digits"},
		{"pincode", "436106", ""},
		{"pincode", "43610", "Pincode must be exactly 6 digits"},
		{"pincode", "4361060", "Pincode must be exactly 6 digits"},
		{"password", "12345", "Password must be at least 6 characters"},
		{"password", "123456", ""},
		{"email", "abc@gmail.com", ""},
		{"email", "abc", "Invalid email format"},
		{"email", "abc@", "Invalid email format"},
		{"fullName", "raja ji", ""},
		{"gender", "Other", ""},
	}

	for _, tc := range cases {
		field, ok := reg.Field(tc.field)
		if !ok {
			t.Fatalf("field %s not registered", tc.field)
		}
		got, failed := field.ErrorMessage(model.Text(tc.value))
		if tc.want == "" {
			if failed {
				t.Fatalf("%s=%q: unexpected error %q", tc.field, tc.value, got)
			}
			if !field.IsValid(model.Text(tc.value)) {
				t.Fatalf("%s=%q: IsValid disagrees with ErrorMessage", tc.field, tc.value)
			}
			continue
		}
		if !failed || got != tc.want {
			t.Fatalf("%s=%q: got (%q, %v), want %q", tc.field, tc.value, got, failed, tc.want)
		}
	}
}

func TestRegistration_ImageVariants(t *testing.T) {
	reg := schema.Registration()
	image, ok := reg.Field("image")
	if !ok {
		t.Fatalf("image field not registered")
	}

	atLimit := model.BlobValue("a.png", "image/png", make([]byte, 5_000_000))
	if msg, failed := image.ErrorMessage(atLimit); failed {
		t.Fatalf("blob at limit should be valid, got %q", msg)
	}

	overLimit := model.BlobValue("b.png", "image/png", make([]byte, 5_000_001))
	if msg, _ := image.ErrorMessage(overLimit); msg != "Max file size is 5MB" {
		t.Fatalf("oversized blob: got %q", msg)
	}

	if !image.IsValid(model.Reference("https://cdn.example.com/u/1.png")) {
		t.Fatalf("non-empty reference should be valid")
	}
	if msg, _ := image.ErrorMessage(model.Reference("")); msg != "Image is required!" {
		t.Fatalf("empty reference: got %q", msg)
	}
	if msg, _ := image.ErrorMessage(model.Absent()); msg != "Image is required!" {
		t.Fatalf("absent image: got %q", msg)
	}
}

func TestFieldSchema_RejectsBlobOnTextField(t *testing.T) {
	reg := schema.Registration()
	verr, err := reg.ValidateField("fullName", model.BlobValue("x", "", []byte("x")))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if verr == nil || verr.Code != model.CodeInvalidType || verr.Message != "Full Name is required!" {
		t.Fatalf("unexpected violation %+v", verr)
	}
}

func TestRegistry_ValidateWholeRecord(t *testing.T) {
	reg := schema.Registration()
	values := model.FormValue{
		"image":    model.Reference("existing.png"),
		"fullName": model.Text("raja ji"),
		"address":  model.Text(""),
		"gender":   model.Text("Male"),
		"email":    model.Text("nope"),
		"mobile":   model.Text("0123456789"),
		"pincode":  model.Text("436106"),
		"password": model.Text("123456"),
	}

	errs := reg.Validate(values)
	want := model.Errors{
		{Field: "address", Code: model.CodeRequired, Message: "Address is required!"},
		{Field: "email", Code: model.CodeInvalidFormat, Message: "Invalid email format"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	result := reg.Result(values)
	if diff := cmp.Diff(model.ValidationResult{
		"address": "Address is required!",
		"email":   "Invalid email format",
	}, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ValidateFieldUnknown(t *testing.T) {
	_, err := schema.Registration().ValidateField("nickname", model.Text("x"))
	if !errors.Is(err, schema.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestRegistry_Covers(t *testing.T) {
	reg := schema.Registration()
	values := model.FormValue{}
	for _, name := range reg.Names() {
		values[name] = model.Absent()
	}
	if err := reg.Covers(values); err != nil {
		t.Fatalf("expected full coverage: %v", err)
	}

	values["nickname"] = model.Text("x")
	delete(values, "email")
	err := reg.Covers(values)
	if err == nil {
		t.Fatalf("expected coverage error")
	}
	if !strings.Contains(err.Error(), "missing email") || !strings.Contains(err.Error(), "no schema for nickname") {
		t.Fatalf("unexpected coverage error: %v", err)
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := schema.NewRegistry(
		schema.FieldSchema{Name: "a", Kind: schema.KindText},
		schema.FieldSchema{Name: "a", Kind: schema.KindText},
	)
	if err == nil {
		t.Fatalf("expected duplicate field error")
	}
}

func TestLoad_RejectsUnknownRuleKind(t *testing.T) {
	def := []byte(`
fields:
  - name: nick
    kind: text
    rules:
      - kind: shout
        message: too quiet
`)
	if _, err := schema.Parse(def); err == nil || !strings.Contains(err.Error(), "unknown rule kind") {
		t.Fatalf("expected unknown rule kind error, got %v", err)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	def := []byte(`
fields:
  - name: nick
    kind: text
    colour: blue
`)
	if _, err := schema.Load(bytes.NewReader(def)); err == nil {
		t.Fatalf("expected strict decode error")
	}
}

func TestLoad_RegistrationDefinitionRoundTrips(t *testing.T) {
	reg, err := schema.Parse(schema.RegistrationDefinition())
	if err != nil {
		t.Fatalf("parse embedded definition: %v", err)
	}
	if diff := cmp.Diff(schema.Registration().Names(), reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	gender, _ := reg.Field("gender")
	if diff := cmp.Diff([]string{"Male", "Female", "Other"}, gender.Options); diff != "" {
		t.Fatalf("gender options mismatch (-want +got):\n%s", diff)
	}
}
