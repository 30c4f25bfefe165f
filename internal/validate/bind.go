package validate

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
	dateType = reflect.TypeOf(Date{})
)

// bindParams fills every `param:"name"` field from the chi route context
// using the OpenAPI "simple" style, the same way generated servers do.
func bindParams(r *http.Request, dst reflect.Value) []FieldError {
	var out []FieldError
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("param")
		if name == "" {
			continue
		}
		err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name),
			dst.Field(i).Addr().Interface(),
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			out = append(out, FieldError{Path: "params." + name, Reason: typeReason(f.Type)})
		}
	}
	return out
}

// bindQuery fills every `query:"name"` field using the OpenAPI "form" style.
// Presence is left to the validator tags; numeric fields accept their string form.
func bindQuery(r *http.Request, dst reflect.Value) []FieldError {
	var out []FieldError
	values := r.URL.Query()
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("query")
		if name == "" {
			continue
		}
		err := runtime.BindQueryParameter("form", true, false, name, values, dst.Field(i).Addr().Interface())
		if err != nil {
			out = append(out, FieldError{Path: "query." + name, Reason: typeReason(f.Type)})
		}
	}
	return out
}

// decodeBody reads a JSON object and decodes each known key into its field
// on its own, so one bad value is reported against its own path. Keys with
// no matching field are ignored and null leaves the field at its zero value.
func decodeBody(r *http.Request, dst reflect.Value) []FieldError {
	var raw map[string]json.RawMessage
	if r.Body == nil {
		return []FieldError{{Path: "body", Reason: "must be a JSON object"}}
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return []FieldError{{Path: "body", Reason: "is too large"}}
		}
		return []FieldError{{Path: "body", Reason: "must be a JSON object"}}
	}

	var out []FieldError
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		msg, ok := raw[name]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := decodeField(msg, dst.Field(i)); err != nil {
			out = append(out, FieldError{Path: "body." + name, Reason: typeReason(f.Type)})
		}
	}
	return out
}

// decodeField unmarshals msg into field. A JSON string is accepted for a
// numeric field when it parses as that number; booleans get no such leniency.
func decodeField(msg json.RawMessage, field reflect.Value) error {
	err := json.Unmarshal(msg, field.Addr().Interface())
	if err == nil {
		return nil
	}
	if len(msg) == 0 || msg[0] != '"' {
		return err
	}
	target := field
	if target.Kind() == reflect.Pointer {
		target = reflect.New(field.Type().Elem()).Elem()
	}
	if !isNumeric(target.Kind()) {
		return err
	}

	var s string
	if json.Unmarshal(msg, &s) != nil {
		return err
	}
	if perr := setNumber(target, strings.TrimSpace(s)); perr != nil {
		return perr
	}
	if field.Kind() == reflect.Pointer {
		p := reflect.New(field.Type().Elem())
		p.Elem().Set(target)
		field.Set(p)
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func setNumber(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		n, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(n)
	}
	return nil
}

// typeReason describes what a field of type t expects.
func typeReason(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == uuidType:
		return "must be a valid UUID"
	case t == dateType || t == reflect.TypeOf(time.Time{}):
		return "must be a valid date"
	case isNumeric(t.Kind()):
		return "must be a number"
	case t.Kind() == reflect.Bool:
		return "must be a boolean"
	case t.Kind() == reflect.String:
		return "must be a string"
	case t.Kind() == reflect.Slice:
		return "must be an array"
	default:
		return "is malformed"
	}
}
