package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes gin's validator report fields by their json (or form)
// name so error details match what the client sent.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// HandleValidationError writes a 400 describing why binding failed.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// FormatValidationErrors turns a binding error into the API error envelope.
// Struct tag failures and JSON type mismatches get per-field details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
		}
		return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return dto.NewValidationErrorResponse("Request validation failed", requestID, []dto.ValidationDetail{{
			Field:   typeErr.Field,
			Message: "Must be of type " + typeErr.Type.String(),
		}})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return dto.NewValidationErrorResponse("Malformed JSON body", requestID, nil)
	}
	return dto.NewValidationErrorResponse("Invalid request: "+err.Error(), requestID, nil)
}

// Messages keyed by validator tag. "{p}" is replaced by the tag parameter.
var validationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"len":      "Must be exactly {p} characters",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: {p}",
	"gt":       "Must be greater than {p}",
	"gte":      "Must be greater than or equal to {p}",
	"lt":       "Must be less than {p}",
	"lte":      "Must be less than or equal to {p}",
	"url":      "Invalid URL format",
	"datetime": "Must be a date in the format {p}",
	"numeric":  "Must be numeric",
}

func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	if tag == "min" || tag == "max" {
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		msg := "Must be " + bound + " " + fe.Param()
		switch fe.Kind() {
		case reflect.String:
			msg += " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			msg += " items"
		}
		return msg
	}
	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{p}", fe.Param())
	}
	return "Invalid value"
}
