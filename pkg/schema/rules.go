package schema

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-userform/pkg/model"
)

// RuleKind identifies a declarative constraint.
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "minLength"
	RulePattern   RuleKind = "pattern"
	RuleEmail     RuleKind = "email"
	RuleMaxBytes  RuleKind = "maxBytes"
)

// Rule is a single constraint with its fixed message. Limit holds the bound
// for minLength/maxBytes and Pattern the expression for pattern rules.
type Rule struct {
	Kind    RuleKind
	Message string
	Limit   int64
	Pattern string

	check func(model.Value) bool
}

// Code maps the rule kind onto the error code reported in violations.
func (r Rule) Code() string {
	switch r.Kind {
	case RuleRequired:
		return model.CodeRequired
	case RuleMinLength:
		return model.CodeTooShort
	case RulePattern:
		return model.CodePattern
	case RuleEmail:
		return model.CodeInvalidFormat
	case RuleMaxBytes:
		return model.CodeTooBig
	default:
		return string(r.Kind)
	}
}

// Allows reports whether the value satisfies the rule.
func (r Rule) Allows(v model.Value) bool {
	if r.check == nil {
		return true
	}
	return r.check(v)
}

// Required fails on absent values and empty strings. Blobs always satisfy it;
// their size is checked by MaxBytes.
func Required(message string) Rule {
	return Rule{
		Kind:    RuleRequired,
		Message: message,
		check: func(v model.Value) bool {
			switch v.Kind() {
			case model.KindBlob:
				return true
			case model.KindText, model.KindReference:
				return v.String() != ""
			default:
				return false
			}
		},
	}
}

// MinLength requires at least n characters (runes, not bytes).
func MinLength(n int64, message string) Rule {
	return Rule{
		Kind:    RuleMinLength,
		Message: message,
		Limit:   n,
		check: func(v model.Value) bool {
			if v.Kind() == model.KindBlob {
				return false
			}
			return int64(utf8.RuneCountInString(v.String())) >= n
		},
	}
}

// Pattern requires the whole string to match expr. The expression should be
// anchored; it is used as written.
func Pattern(expr, message string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("schema: compile pattern %q: %w", expr, err)
	}
	return Rule{
		Kind:    RulePattern,
		Message: message,
		Pattern: expr,
		check: func(v model.Value) bool {
			if v.Kind() == model.KindBlob {
				return false
			}
			return re.MatchString(v.String())
		},
	}, nil
}

// MustPattern is Pattern for expressions known to compile.
func MustPattern(expr, message string) Rule {
	r, err := Pattern(expr, message)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	emailOnce     sync.Once
	emailValidate *validator.Validate
)

func emailValidator() *validator.Validate {
	emailOnce.Do(func() {
		emailValidate = validator.New()
	})
	return emailValidate
}

// Email requires a syntactically valid email address.
func Email(message string) Rule {
	return Rule{
		Kind:    RuleEmail,
		Message: message,
		check: func(v model.Value) bool {
			if v.Kind() == model.KindBlob {
				return false
			}
			return emailValidator().Var(v.String(), "required,email") == nil
		},
	}
}

// MaxBytes bounds blob payloads to n bytes inclusive. Non-blob values are
// not affected.
func MaxBytes(n int64, message string) Rule {
	return Rule{
		Kind:    RuleMaxBytes,
		Message: message,
		Limit:   n,
		check: func(v model.Value) bool {
			b, ok := v.Blob()
			if !ok {
				return true
			}
			return b.Size() <= n
		},
	}
}
