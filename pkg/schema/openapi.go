package schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extensionKind     = "x-userform-kind"
	extensionMessages = "x-userform-messages"
	extensionOptions  = "x-userform-options"
)

// OpenAPI projects the registry onto an OpenAPI object schema. Rule messages
// travel under the x-userform-messages extension keyed by rule kind.
func (r *Registry) OpenAPI() *openapi3.Schema {
	root := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(r.fields)),
	}
	for _, field := range r.fields {
		root.Properties[field.Name] = openapi3.NewSchemaRef("", fieldOpenAPI(field))
		if field.Required() {
			root.Required = append(root.Required, field.Name)
		}
	}
	return root
}

func fieldOpenAPI(field FieldSchema) *openapi3.Schema {
	out := &openapi3.Schema{
		Title: field.Label,
		Extensions: map[string]any{
			extensionKind: string(field.Kind),
		},
	}
	messages := make(map[string]string, len(field.Rules))
	for _, rule := range field.Rules {
		messages[string(rule.Kind)] = rule.Message
	}
	if len(messages) > 0 {
		out.Extensions[extensionMessages] = messages
	}

	if field.Kind == KindBinaryOrReference {
		blob := &openapi3.Schema{
			Type:   &openapi3.Types{openapi3.TypeString},
			Format: "binary",
		}
		reference := &openapi3.Schema{
			Type:      &openapi3.Types{openapi3.TypeString},
			MinLength: 1,
		}
		for _, rule := range field.Rules {
			if rule.Kind == RuleMaxBytes {
				limit := uint64(rule.Limit)
				blob.MaxLength = &limit
			}
		}
		out.AnyOf = openapi3.SchemaRefs{
			openapi3.NewSchemaRef("", blob),
			openapi3.NewSchemaRef("", reference),
		}
		return out
	}

	out.Type = &openapi3.Types{openapi3.TypeString}
	if field.Secret {
		out.Format = "password"
	}
	for _, rule := range field.Rules {
		switch rule.Kind {
		case RuleRequired:
			if out.MinLength < 1 {
				out.MinLength = 1
			}
		case RuleMinLength:
			if uint64(rule.Limit) > out.MinLength {
				out.MinLength = uint64(rule.Limit)
			}
		case RulePattern:
			out.Pattern = rule.Pattern
		case RuleEmail:
			out.Format = "email"
		}
	}
	if len(field.Options) > 0 {
		// options are suggestions for pickers; validation stays non-empty
		out.Extensions[extensionOptions] = append([]string(nil), field.Options...)
	}
	return out
}
