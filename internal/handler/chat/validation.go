package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/everkind/backend/internal/model/chat"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateMessage, chat.Message{})
	return v
}

// validateMessage requires the role and content keys to be present while
// still accepting empty strings for them.
func validateMessage(sl validator.StructLevel) {
	msg := sl.Current().Interface().(chat.Message)
	for _, key := range msg.MissingFields() {
		switch key {
		case "role":
			sl.ReportError(msg.Role, "role", "Role", "required", "")
		case "content":
			sl.ReportError(msg.Content, "content", "Content", "required", "")
		}
	}
}

// fieldErrors converts validator failures into body-located field errors.
func fieldErrors(err error) []chat.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []chat.FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}

	out := make([]chat.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErr := chat.FieldError{Loc: location(fe.Namespace())}
		switch fe.Tag() {
		case "required":
			fieldErr.Msg = "Field required"
			fieldErr.Type = "missing"
		case "min":
			fieldErr.Msg = fmt.Sprintf("String should have at least %s character(s)", fe.Param())
			fieldErr.Type = "string_too_short"
		case "max":
			fieldErr.Msg = fmt.Sprintf("String should have at most %s characters", fe.Param())
			fieldErr.Type = "string_too_long"
		default:
			fieldErr.Msg = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
			fieldErr.Type = "value_error"
		}
		out = append(out, fieldErr)
	}
	return out
}

// decodeError describes a body that could not be decoded into a ChatRequest.
func decodeError(err error) []chat.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []chat.FieldError{{
			Loc:  append([]string{"body"}, strings.Split(typeErr.Field, ".")...),
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type),
			Type: "type_error",
		}}
	}
	return []chat.FieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
}

// location turns "ChatRequest.conversation_history[0].role" into
// ["body", "conversation_history", "0", "role"].
func location(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	loc := []string{"body"}
	for _, part := range parts {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				loc = append(loc, part)
				break
			}
			if open > 0 {
				loc = append(loc, part[:open])
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				loc = append(loc, part[open:])
				break
			}
			loc = append(loc, part[open+1:open+end])
			part = part[open+end+1:]
		}
	}
	return loc
}
