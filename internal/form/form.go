// Package form trims and validates mutation payloads before they reach the
// API. Only a Valid value can be passed to a mutating endpoint.
package form

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field's JSON name to a human readable problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, fe[k])
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", k, fe[k]))
	}
	return strings.Join(parts, "; ")
}

// Valid wraps a payload that passed Validate.
type Valid[T any] struct {
	value T
}

// Value returns the trimmed, validated payload.
func (v Valid[T]) Value() T {
	return v.value
}

var (
	conform  *mold.Transformer
	validate *validator.Validate
)

func init() {
	conform = modifiers.New()
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate conforms in according to its mod tags and validates it. A nil
// FieldErrors means the returned Valid may be submitted.
func Validate[T any](in T) (Valid[T], FieldErrors) {
	if err := conform.Struct(context.Background(), &in); err != nil {
		return Valid[T]{}, FieldErrors{"": err.Error()}
	}
	if err := validate.Struct(&in); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Valid[T]{}, FieldErrors{"": err.Error()}
		}
		out := make(FieldErrors, len(errs))
		for _, fe := range errs {
			if _, seen := out[fe.Field()]; seen {
				continue
			}
			out[fe.Field()] = formatFieldError(fe)
		}
		return Valid[T]{}, out
	}
	return Valid[T]{value: in}, nil
}

func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "max":
		return "must be at most " + bound(err)
	case "min":
		return "must be at least " + bound(err)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(err.Param()), ", "))
	default:
		return fmt.Sprintf("failed %s check", err.Tag())
	}
}

func bound(err validator.FieldError) string {
	resource := "character"
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Slice, reflect.Array:
		resource = "item"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return err.Param()
	}
	if err.Param() != "1" {
		resource += "s"
	}
	return err.Param() + " " + resource
}
