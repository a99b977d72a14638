package validation

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/schema"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of a projection check.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// CheckProjection verifies that the registry's OpenAPI projection is a
// well-formed schema.
func CheckProjection(ctx context.Context, reg *schema.Registry) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}
	if err := reg.OpenAPI().Validate(ctx); err != nil {
		result.Valid = false
		result.Issues = issuesFromError(err)
	}
	return result
}

// ValidateRecord checks values against the OpenAPI projection instead of the
// registry rules. Absent values are omitted; blobs are stood in for by a
// string of the same byte length. The email format is not checked by the
// projection, and binary-or-reference fields cannot tell an empty blob from
// an empty reference.
func ValidateRecord(reg *schema.Registry, values model.FormValue) SchemaValidationResult {
	doc := make(map[string]any, len(values))
	for name, value := range values {
		switch value.Kind() {
		case model.KindAbsent:
			continue
		case model.KindBlob:
			blob, _ := value.Blob()
			doc[name] = strings.Repeat("\x00", len(blob.Data))
		default:
			doc[name] = value.String()
		}
	}

	result := SchemaValidationResult{Valid: true}
	if err := reg.OpenAPI().VisitJSON(doc, openapi3.MultiErrors()); err != nil {
		result.Valid = false
		result.Issues = issuesFromError(err)
	}
	return result
}

// Fields returns the sorted, de-duplicated field names carrying issues.
func (r SchemaValidationResult) Fields() []string {
	seen := make(map[string]struct{}, len(r.Issues))
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field == "" {
			continue
		}
		if _, ok := seen[issue.Field]; ok {
			continue
		}
		seen[issue.Field] = struct{}{}
		out = append(out, issue.Field)
	}
	sort.Strings(out)
	return out
}

func issuesFromError(err error) []SchemaIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]SchemaIssue, 0, len(multi))
		for _, item := range multi {
			out = append(out, issuesFromError(item)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		issue := SchemaIssue{
			Path:    pointerString(pointer),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
		if len(pointer) > 0 {
			issue.Field = pointer[0]
		}
		return []SchemaIssue{issue}
	}

	return []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}
}

func pointerString(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "#/" + strings.Join(escaped, "/")
}
