// Package validate runs the schema checks of every entity before it can
// reach a store. It wraps go-playground/validator and turns its errors
// into a list of field errors that handlers send back to the client.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/resource-api/internal/types"
)

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldError describes one rejected field. Field is the JSON path of the
// value, e.g. "addresses[0].city".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned when at least one field is invalid.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, ", ")
}

// Validator is safe for concurrent use; build one at start-up and share it.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator. countryCode is the digits a student phone must
// carry after the leading "+".
func New(countryCode string) (*Validator, error) {
	phone, err := regexp.Compile(`^\+` + regexp.QuoteMeta(countryCode) + `\d{1,12}$`)
	if err != nil {
		return nil, fmt.Errorf("validate.New: phone pattern: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phone.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("validate.New: register phone: %w", err)
	}
	if err := v.RegisterValidation("dob", func(fl validator.FieldLevel) bool {
		return dobPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("validate.New: register dob: %w", err)
	}

	return &Validator{v: v}, nil
}

// Struct checks every validate:"..." tag on s. It returns nil, Errors, or
// the validator's own error when s is not a struct.
func (v *Validator) Struct(s any) error {
	return v.convert("", v.v.Struct(s))
}

// Items checks every element of a POST /submit body.
func (v *Validator) Items(items []types.Item) error {
	var out Errors
	for i, item := range items {
		err := v.convert(fmt.Sprintf("[%d]", i), v.v.Struct(item))
		var fe Errors
		if errors.As(err, &fe) {
			out = append(out, fe...)
		} else if err != nil {
			return err
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UserPatch checks only the fields present in the change-set, with the same
// rules as types.UserInput. Null is accepted for bio and addresses (they are
// cleared) and rejected for the required fields.
func (v *Validator) UserPatch(p types.UserPatch) error {
	var out Errors

	check := func(field string, opt bool, null bool, value any, tag string) {
		if !opt {
			return
		}
		if null {
			out = append(out, FieldError{Field: field, Message: "may not be null"})
			return
		}
		if err := v.v.Var(value, tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, e := range verrs {
					out = append(out, FieldError{Field: field, Message: message(e)})
				}
			}
		}
	}

	check("name", p.Name.Set, p.Name.Null, p.Name.Value, "required,min=3,max=50")
	check("email", p.Email.Set, p.Email.Null, p.Email.Value, "required,email")
	check("age", p.Age.Set, p.Age.Null, p.Age.Value, "gte=13,lte=120")
	check("bio", p.Bio.Present(), false, p.Bio.Value, "max=200")

	if p.Addresses.Present() {
		for i, a := range p.Addresses.Value {
			err := v.convert(fmt.Sprintf("addresses[%d]", i), v.v.Struct(a))
			var fe Errors
			if errors.As(err, &fe) {
				out = append(out, fe...)
			}
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// convert maps validator.ValidationErrors to Errors, prefixing each field
// path with prefix. The struct name at the start of the namespace is dropped.
func (v *Validator) convert(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if prefix != "" {
			field = prefix + "." + field
		}
		out = append(out, FieldError{Field: field, Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("should have at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("should have at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "phone":
		return "must be a phone number with country code"
	case "dob":
		return "must use YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.ActualTag())
	}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
