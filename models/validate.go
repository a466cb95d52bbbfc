package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)

// FieldError names one violated constraint.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "enum":
		return e.Field + " is not one of the allowed values"
	case "phone":
		return e.Field + " is not a valid phone number"
	case "finite":
		return e.Field + " is out of range"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("%s must be <= %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field, e.Param)
	}
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
}

// ValidationError is returned when a document violates its schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(interface{ Valid() bool })
			return ok && e.Valid()
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() == reflect.Ptr {
				if f.IsNil() {
					return true
				}
				f = f.Elem()
			}
			switch f.Kind() {
			case reflect.Float32, reflect.Float64:
				return !math.IsInf(f.Float(), 0) && !math.IsNaN(f.Float())
			}
			return true
		})
		validate = v
	})
	return validate
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	err := schema().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldPath drops the root type name: "CropRecord.soilData.pH" -> "soilData.pH".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
