package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-userform/pkg/model"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// StripMarkup removes every tag from s and trims the result. Entities
// produced by the policy are decoded again so "&" survives.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(s)))
}

// WithSanitizer cleans text values before they are stored, so validation
// and the sink see the same string. References and blobs are not touched.
func WithSanitizer(fn func(string) string) Option {
	return func(s *Store) {
		s.sanitize = fn
	}
}

func (s *Store) clean(v model.Value) model.Value {
	if s.sanitize == nil || v.Kind() != model.KindText {
		return v
	}
	return model.Text(s.sanitize(v.String()))
}
