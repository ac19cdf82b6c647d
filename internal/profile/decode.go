package profile

import (
	_ "embed"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidInput marks profile input rejected at the boundary.
var ErrInvalidInput = errors.New("invalid input")

//go:embed profile.schema.json
var schemaJSON string

var (
	schema   = mustSchema(schemaJSON)
	validate = newValidator()
)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field rejected while decoding a profile.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid profile:")
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d) %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("profile schema: %v", err))
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("cvdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("cvend", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if IsPresent(s) {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	}))

	return v
}

// Decode turns a raw document (parsed JSON/YAML or a form submission) into a
// profile. The document is checked against the profile schema, decoded and then
// validated field by field.
func Decode(raw map[string]any) (*CandidateProfile, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !result.Valid() {
		verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, verr
	}

	var p CandidateProfile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeToStringHook,
			skillFromStringHook,
		),
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return nil, fmt.Errorf("creating profile decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks field constraints on an already decoded profile.
func Validate(p *CandidateProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}

	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "CandidateProfile."),
			Message: describeTag(fe),
		})
	}
	return verr
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "cvdate":
		return "must be a date like 2021-03, 2021-03-15, 03/2021 or 2021"
	case "cvend":
		return "must be a date or 'present'"
	default:
		return "failed on " + fe.Tag()
	}
}

// Dates parsed natively by the file format land in string fields as text:
// YAML timestamps arrive as time.Time, TOML dates as go-toml's LocalDate.
func timeToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	switch v := data.(type) {
	case time.Time:
		return v.Format("2006-01-02"), nil
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	return data, nil
}

// A bare string in the skills list is shorthand for {name: ...}.
func skillFromStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Skill{}) {
		return data, nil
	}
	return map[string]any{"name": data}, nil
}
