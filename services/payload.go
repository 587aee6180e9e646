package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Optional distinguishes a field that was omitted from one sent as null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

func Null[T any]() Optional[T] { return Optional[T]{Set: true, Null: true} }

// HasValue reports whether the field was sent with a non-null value.
func (o Optional[T]) HasValue() bool { return o.Set && !o.Null }

func (o Optional[T]) IsZero() bool { return !o.Set }

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreateProductInput is the POST /products body.
type CreateProductInput struct {
	Name          string           `json:"name" yaml:"name" validate:"required"`
	Description   *string          `json:"description,omitempty" yaml:"description"`
	Price         *decimal.Decimal `json:"price" yaml:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty" yaml:"originalPrice"`
	Category      string           `json:"category" yaml:"category" validate:"required"`
	Brand         *string          `json:"brand,omitempty" yaml:"brand"`
	Sizes         []string         `json:"sizes,omitempty" yaml:"sizes"`
	Colors        []string         `json:"colors,omitempty" yaml:"colors"`
	Features      []string         `json:"features,omitempty" yaml:"features"`
	ShippingInfo  *string          `json:"shippingInfo,omitempty" yaml:"shippingInfo"`
	ReturnPolicy  *string          `json:"returnPolicy,omitempty" yaml:"returnPolicy"`
	IsNew         bool             `json:"isNew" yaml:"isNew"`
	IsSale        bool             `json:"isSale" yaml:"isSale"`
	Images        []string         `json:"images,omitempty" yaml:"images"`
}

// UpdateProductInput is the PUT /products/:id body. Omitted fields keep
// their stored value; null clears optional ones.
type UpdateProductInput struct {
	Name          Optional[string]          `json:"name,omitzero"`
	Description   Optional[string]          `json:"description,omitzero"`
	Price         Optional[decimal.Decimal] `json:"price,omitzero"`
	OriginalPrice Optional[decimal.Decimal] `json:"originalPrice,omitzero"`
	Category      Optional[string]          `json:"category,omitzero"`
	Brand         Optional[string]          `json:"brand,omitzero"`
	Sizes         Optional[[]string]        `json:"sizes,omitzero"`
	Colors        Optional[[]string]        `json:"colors,omitzero"`
	Features      Optional[[]string]        `json:"features,omitzero"`
	ShippingInfo  Optional[string]          `json:"shippingInfo,omitzero"`
	ReturnPolicy  Optional[string]          `json:"returnPolicy,omitzero"`
	IsNew         Optional[bool]            `json:"isNew,omitzero"`
	IsSale        Optional[bool]            `json:"isSale,omitzero"`
	Images        Optional[[]string]        `json:"images,omitzero"`
}

// ContactInput is the POST /contact body.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate runs struct validation and converts failures into InvalidInput.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.InvalidInput("Invalid request body")
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return apperrors.InvalidInput(strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// DecodeError turns a request body decoding failure into InvalidInput.
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.InvalidInput(fmt.Sprintf("%s has an invalid type", typeErr.Field))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.InvalidInput("Malformed JSON body")
	}
	if strings.Contains(err.Error(), "decimal") {
		return apperrors.InvalidInput("Request body contains an invalid number")
	}
	return apperrors.InvalidInput("Invalid request body")
}

var (
	decimalType         = reflect.TypeOf(decimal.Decimal{})
	optionalDecimalType = reflect.TypeOf(Optional[decimal.Decimal]{})
)

// DecodeBodyError is DecodeError for a body decoded into dst. Decimal
// parse errors carry no field path, so the offending field is found by
// re-reading the body's decimal fields one at a time.
func DecodeBodyError(err error, body []byte, dst any) error {
	if field := invalidDecimalField(body, dst); field != "" {
		return apperrors.InvalidInput(fmt.Sprintf("%s must be a number", field))
	}
	return DecodeError(err)
}

func invalidDecimalField(body []byte, dst any) string {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}
	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		return ""
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		ft := field.Type
		if ft != decimalType && ft != reflect.PointerTo(decimalType) && ft != optionalDecimalType {
			continue
		}
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = field.Name
		}
		value, ok := raw[name]
		if !ok {
			continue
		}
		var d decimal.Decimal
		if d.UnmarshalJSON(value) != nil {
			return name
		}
	}
	return ""
}
