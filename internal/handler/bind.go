package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"freelancedesk/internal/errs"
	"freelancedesk/internal/model"
)

// fieldMessages are the messages the web client shows next to a field.
var fieldMessages = map[string]string{
	"name":          "Name must be at least 2 characters",
	"email":         "Must provide a valid email",
	"title":         "Title must be at least 2 characters",
	"clientId":      "Client must be selected",
	"projectId":     "Project must be selected",
	"invoiceNumber": "Invoice number is required",
}

// tagCodes maps a validator tag to the error code sent to the client.
var tagCodes = map[string]string{
	"required": "invalid_type",
	"min":      "too_small",
	"gt":       "too_small",
	"email":    "invalid_string",
	"oneof":    "invalid_enum_value",
}

var tagNamesOnce sync.Once

// registerTagNames makes validator report json field names ("clientId")
// instead of Go field names, and look inside Nullable patch fields.
func registerTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(nullableValue,
			model.Nullable[string]{},
			model.Nullable[int64]{},
			model.Nullable[bool]{},
			model.Nullable[time.Time]{},
			model.Nullable[model.Money]{},
			model.Nullable[model.ProjectStatus]{},
			model.Nullable[model.TaskPriority]{},
			model.Nullable[model.PaymentStatus]{},
		)
	})
}

// nullableValue hands the validator a pointer to the wrapped value, nil
// when absent or null so omitempty skips it.
func nullableValue(field reflect.Value) any {
	if n, ok := field.Interface().(interface{ ValueOrNil() any }); ok {
		return n.ValueOrNil()
	}
	return nil
}

// checker is implemented by payloads with rules struct tags cannot express.
type checker interface {
	Check() []model.FieldProblem
}

// bindJSON decodes and validates the request body into dst. The returned
// error is an *errs.ValidationError for anything the client got wrong.
// An empty body decodes as {}.
func bindJSON(c *gin.Context, dst any) error {
	verr := &errs.ValidationError{}

	body, err := c.GetRawData()
	if err != nil {
		verr.Add("body", "invalid_type", "Invalid request body: "+err.Error())
		return verr
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := binding.JSON.BindBody(body, dst); err != nil {
		var fieldErrs validator.ValidationErrors
		var decodeErr *model.DecodeError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &fieldErrs):
			sent := sentFields(body)
			for _, fe := range fieldErrs {
				code, msg := describe(fe, sent)
				verr.Add(fe.Field(), code, msg)
			}
		case errors.As(err, &decodeErr):
			verr.Add(decodeErr.Field, "invalid_type", "Invalid "+decodeErr.Field+": "+decodeErr.Err.Error())
			return verr
		case errors.As(err, &typeErr):
			verr.Add(typeErr.Field, "invalid_type", "Expected "+typeErr.Type.String()+", received "+typeErr.Value)
			return verr
		default:
			verr.Add("body", "invalid_type", "Invalid request body: "+err.Error())
			return verr
		}
	}

	// dst is fully decoded here, so its own checks run next to the tag failures.
	if ch, ok := dst.(checker); ok {
		for _, p := range ch.Check() {
			verr.Add(p.Field, p.Code, p.Message)
		}
	}
	return verr.OrNil()
}

// sentFields indexes the top-level keys of an object body.
func sentFields(body []byte) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	_ = json.Unmarshal(body, &m)
	return m
}

// describe turns a validator failure into a code and message. A "required"
// failure is split three ways: key missing, key sent as null, key sent
// with an empty value.
func describe(fe validator.FieldError, sent map[string]json.RawMessage) (code, message string) {
	if fe.Tag() != "required" {
		return codeFor(fe.Tag()), messageFor(fe)
	}
	raw, ok := sent[fe.Field()]
	switch {
	case !ok:
		return "invalid_type", messageFor(fe)
	case bytes.Equal(bytes.TrimSpace(raw), []byte("null")):
		return "invalid_type", "Expected " + jsonKind(fe.Type()) + ", received null"
	default:
		return "too_small", messageFor(fe)
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	}
	return "string"
}

func codeFor(tag string) string {
	if code, ok := tagCodes[tag]; ok {
		return code
	}
	return "custom"
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		return "Invalid enum value. Expected '" + strings.ReplaceAll(fe.Param(), " ", "' | '") + "'"
	}
	return "Invalid value"
}
