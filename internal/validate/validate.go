// Package validate parses and checks raw HTTP input against per-route
// declarative shapes before any handler logic runs.
//
// A shape is a set of plain structs:
//
//	var p struct {
//		TripID openapi_types.UUID `param:"tripId"`
//	}
//	var b struct {
//		Title    string `json:"title" validate:"required,min=4"`
//		OccursAt Date   `json:"occurs_at" validate:"required"`
//	}
//	err := v.Request(r, validate.Shape{Params: &p, Body: &b})
//
// Path parameters are bound from chi's route context, query parameters with
// the OpenAPI "form" style, and the body as a JSON object whose unknown keys
// are ignored. Field rules are go-playground/validator tags.
package validate

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// FieldError is one machine-readable validation failure.
type FieldError struct {
	// Path is "<section>.<field>", e.g. "params.tripId" or "body.occurs_at".
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Error is returned when a request does not match its shape.
// It matches errors.Is(err, domain.ErrValidation).
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Reason
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == domain.ErrValidation }

// Shape groups the destinations for one route. Nil sections are skipped.
// Each non-nil section must be a pointer to a struct.
type Shape struct {
	Params any
	Query  any
	Body   any
}

// Validator binds and checks requests. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator whose error paths use the param, query and json tag names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"param", "query", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
	return &Validator{v: v}
}

// Request binds every section of s from r, then applies the field rules.
// All sections are checked so the caller sees every problem at once; if any
// failed the result is an *Error and the destinations must not be used.
func (v *Validator) Request(r *http.Request, s Shape) error {
	var fields []FieldError

	sections := []struct {
		name string
		dst  any
		bind func(*http.Request, reflect.Value) []FieldError
	}{
		{"params", s.Params, bindParams},
		{"query", s.Query, bindQuery},
		{"body", s.Body, decodeBody},
	}
	for _, sec := range sections {
		if sec.dst == nil {
			continue
		}
		rv := reflect.ValueOf(sec.dst)
		if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("validate: %s destination must be a pointer to a struct, got %T", sec.name, sec.dst)
		}

		bindErrs := sec.bind(r, rv.Elem())
		fields = append(fields, bindErrs...)

		ruleErrs, err := v.check(sec.name, sec.dst, bindErrs)
		if err != nil {
			return err
		}
		fields = append(fields, ruleErrs...)
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// check runs the validator tags on dst. Fields that already failed to bind
// are not reported twice.
func (v *Validator) check(section string, dst any, bindErrs []FieldError) ([]FieldError, error) {
	failed := make(map[string]bool, len(bindErrs))
	for _, b := range bindErrs {
		failed[b.Path] = true
	}
	if failed[section] {
		return nil, nil
	}

	err := v.v.Struct(dst)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var out []FieldError
	for _, fe := range verrs {
		path := section + "." + fieldPath(fe)
		if failed[path] {
			continue
		}
		out = append(out, FieldError{Path: path, Reason: reason(fe)})
	}
	return out, nil
}

// fieldPath drops the struct type name validator puts at the head of the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "failed " + fe.Tag() + " rule"
	}
}
