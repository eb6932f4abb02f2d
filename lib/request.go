package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate    = newValidator()
	formDecoder = newFormDecoder()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// card expiry years
	_ = v.RegisterValidation("notpast_year", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() >= int64(time.Now().Year())
	})

	return v
}

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one message per offending field and maps to 400.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Errors))
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// DecodeBody decodes a strict JSON body into T. Unknown fields are rejected.
func DecodeBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	body := new(T)
	if err := dec.Decode(body); err != nil {
		return nil, err
	}
	return body, nil
}

// DecodeForm maps an already parsed form onto T through its schema tags.
func DecodeForm[T any](r *http.Request) (*T, error) {
	values := r.PostForm
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
	}

	body := new(T)
	if err := formDecoder.Decode(body, values); err != nil {
		return nil, fmt.Errorf("failed to decode form: %w", err)
	}
	return body, nil
}

func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	return decodeValid(DecodeBody[T](r))
}

func ExtractAndValidateForm[T any](r *http.Request) (*T, error) {
	return decodeValid(DecodeForm[T](r))
}

func decodeValid[T any](body *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if err := Validate(body); err != nil {
		return nil, err
	}
	return body, nil
}

// Validate checks struct tags and reports failures as a *ValidationError.
func Validate(body any) error {
	err := validate.Struct(body)
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Errors = append(out.Errors, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: describe(fe),
		})
	}
	return out
}

var tagMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email address",
	"uuid4":        "must be a valid UUID",
	"number":       "must contain digits only",
	"alpha":        "must contain letters only",
	"notpast_year": "must not be in the past",
}

func describe(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param() + unitFor(fe.Kind())
	case "max":
		return "must be at most " + fe.Param() + unitFor(fe.Kind())
	case "len":
		return "must be exactly " + fe.Param() + unitFor(fe.Kind())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

func unitFor(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	}
	return ""
}
