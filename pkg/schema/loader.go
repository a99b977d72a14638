package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registration.yaml
var registrationYAML []byte

// Definition is the YAML shape of a registry.
type Definition struct {
	Fields []FieldDefinition `yaml:"fields"`
}

// FieldDefinition is the YAML shape of a single field.
type FieldDefinition struct {
	Name    string           `yaml:"name"`
	Label   string           `yaml:"label,omitempty"`
	Kind    Kind             `yaml:"kind"`
	Secret  bool             `yaml:"secret,omitempty"`
	Options []string         `yaml:"options,omitempty"`
	Rules   []RuleDefinition `yaml:"rules"`
}

// RuleDefinition is the YAML shape of a single rule.
type RuleDefinition struct {
	Kind    RuleKind `yaml:"kind"`
	Message string   `yaml:"message"`
	Value   int64    `yaml:"value,omitempty"`
	Pattern string   `yaml:"pattern,omitempty"`
}

// Registration returns the registry for the user-registration form.
func Registration() *Registry {
	r, err := Parse(registrationYAML)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded registration definition: %v", err))
	}
	return r
}

// RegistrationDefinition exposes the embedded YAML so callers can start an
// override file from it.
func RegistrationDefinition() []byte {
	return append([]byte(nil), registrationYAML...)
}

// LoadFile reads a registry definition from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML definition and builds the registry.
func Parse(data []byte) (*Registry, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML definition from r. Unknown keys are rejected.
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: definition is empty")
		}
		return nil, fmt.Errorf("schema: decode definition: %w", err)
	}
	return def.Build()
}

// Build converts the definition into a Registry.
func (d Definition) Build() (*Registry, error) {
	if len(d.Fields) == 0 {
		return nil, errors.New("schema: definition has no fields")
	}
	fields := make([]FieldSchema, 0, len(d.Fields))
	for _, fd := range d.Fields {
		field, err := fd.build()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return NewRegistry(fields...)
}

func (fd FieldDefinition) build() (FieldSchema, error) {
	name := strings.TrimSpace(fd.Name)
	field := FieldSchema{
		Name:    name,
		Label:   strings.TrimSpace(fd.Label),
		Kind:    fd.Kind,
		Secret:  fd.Secret,
		Options: append([]string(nil), fd.Options...),
	}
	if field.Kind == "" {
		field.Kind = KindText
	}
	for i, rd := range fd.Rules {
		rule, err := rd.build()
		if err != nil {
			return FieldSchema{}, fmt.Errorf("schema: field %q rule %d: %w", name, i, err)
		}
		field.Rules = append(field.Rules, rule)
	}
	return field, nil
}

func (rd RuleDefinition) build() (Rule, error) {
	if strings.TrimSpace(rd.Message) == "" {
		return Rule{}, errors.New("message is required")
	}
	switch rd.Kind {
	case RuleRequired:
		return Required(rd.Message), nil
	case RuleMinLength:
		if rd.Value <= 0 {
			return Rule{}, errors.New("minLength requires a positive value")
		}
		return MinLength(rd.Value, rd.Message), nil
	case RulePattern:
		if rd.Pattern == "" {
			return Rule{}, errors.New("pattern requires an expression")
		}
		return Pattern(rd.Pattern, rd.Message)
	case RuleEmail:
		return Email(rd.Message), nil
	case RuleMaxBytes:
		if rd.Value <= 0 {
			return Rule{}, errors.New("maxBytes requires a positive value")
		}
		return MaxBytes(rd.Value, rd.Message), nil
	default:
		return Rule{}, fmt.Errorf("unknown rule kind %q", rd.Kind)
	}
}
