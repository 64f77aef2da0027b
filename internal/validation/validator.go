// Package validation parses and bound-checks user input before it reaches the
// estimator. Expected input problems are reported as a field -> message map; only
// misuse of the validator itself produces an error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// Result is the outcome of validating one form.
type Result struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Err returns nil for a successful result and an *Error otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Fields: r.Errors}
}

// Error carries the per-field messages of a failed validation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalizer is implemented by forms that sanitize themselves before validation.
type Normalizer interface {
	Normalize()
}

// Validator checks forms against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the domain tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "decimal", func(fl validator.FieldLevel) bool {
		_, err := ParseDecimal(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "count", func(fl validator.FieldLevel) bool {
		_, err := ParseCount(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "dgt", compareDecimal(func(c int) bool { return c > 0 }))
	mustRegister(v, "dmin", compareDecimal(func(c int) bool { return c >= 0 }))
	mustRegister(v, "dmax", compareDecimal(func(c int) bool { return c <= 0 }))
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool { return IsPhone(fl.Field().String()) })
	mustRegister(v, "sms_e164", func(fl validator.FieldLevel) bool { return IsE164(fl.Field().String()) })
	mustRegister(v, "fence_type", func(fl validator.FieldLevel) bool {
		return models.FenceType(fl.Field().String()).Valid()
	})
	mustRegister(v, "terrain", func(fl validator.FieldLevel) bool {
		return models.Terrain(fl.Field().String()).Valid()
	})
	mustRegister(v, "material_category", func(fl validator.FieldLevel) bool {
		return models.MaterialCategory(fl.Field().String()).Valid()
	})
	mustRegister(v, "variant_type", func(fl validator.FieldLevel) bool {
		return models.VariantType(fl.Field().String()).Valid()
	})
	mustRegister(v, "quote_status", func(fl validator.FieldLevel) bool {
		return models.QuoteStatus(fl.Field().String()).Valid()
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// compareDecimal builds a validator comparing the field to the tag parameter.
// Unparseable fields pass so that the "decimal" tag owns that message.
func compareDecimal(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := ParseDecimal(fl.Field().String())
		if err != nil {
			return true
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			panic(fmt.Sprintf("bad decimal bound %q on %s", fl.Param(), fl.FieldName()))
		}
		return ok(value.Cmp(bound))
	}
}

// Check normalizes form when it supports it and validates it. The error return is
// reserved for programmer mistakes such as passing a nil or non-struct value.
func (v *Validator) Check(form any) (Result, error) {
	if n, ok := form.(Normalizer); ok && !isNilPointer(form) {
		n.Normalize()
	}

	err := v.validate.Struct(form)
	if err == nil {
		return Result{Success: true}, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return Result{}, fmt.Errorf("validate %T: %w", form, err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{}, fmt.Errorf("validate %T: %w", form, err)
	}

	res := Result{Errors: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		if _, seen := res.Errors[field]; seen {
			continue
		}
		res.Errors[field] = message(fe)
	}
	return res, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must be a valid phone number"
	case "sms_e164":
		return field + " must be an international number such as +15551234567"
	case "max":
		if isLength(fe.Kind()) {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if isLength(fe.Kind()) {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "decimal":
		return field + " must be a number"
	case "count":
		return field + " must be a whole number"
	case "dgt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "dmin":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "dmax":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "fence_type":
		return field + " is not a supported fence type"
	case "terrain":
		return field + " must be flat, sloped or rocky"
	case "material_category":
		return field + " is not a material category"
	case "variant_type":
		return field + " must be budget, standard or premium"
	case "quote_status":
		return field + " is not a quote status"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// isLength reports whether min/max on a field of kind k bound its length.
func isLength(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
