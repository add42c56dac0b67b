package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mbelkin/geoauth/internal/server/api/httperr"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. Failures become a typed
// 400 whose code identifies the first offending field, with every message in
// the details.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}

	out := httperr.New(http.StatusBadRequest, fieldCode(ve[0]), msgs[0])
	if len(msgs) > 1 {
		out = out.WithDetails(msgs)
	}
	return out
}

// fieldCode maps a failed field to its envelope code.
func fieldCode(fe validator.FieldError) string {
	switch strings.ToLower(fe.Field()) {
	case "email":
		return "INVALID_EMAIL"
	case "password":
		return "INVALID_PASSWORD"
	case "ip":
		return "INVALID_IP"
	default:
		return "VALIDATION_ERROR"
	}
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "ip":
		return field + " must be a valid IP address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
