// Package apperr defines the error taxonomy returned to API clients and the
// single place where driver, binding and validation errors are mapped onto it.
package apperr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindInsufficientStock
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInsufficientStock:
		return "insufficient_stock"
	default:
		return "internal"
	}
}

// Status maps a kind onto its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDuplicate, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func Duplicate(message string) *Error { return New(KindDuplicate, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func InsufficientStock(message string) *Error { return New(KindInsufficientStock, message) }

// Internal wraps an unexpected failure. The cause is logged, never rendered.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// From translates any error into the taxonomy.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("resource not found")
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return NotFound("resource not found")
	}

	if mongo.IsDuplicateKeyError(err) {
		if field := duplicateField(err.Error()); field != "" {
			return &Error{Kind: KindDuplicate, Message: field + " already in use", Err: err}
		}
		return &Error{Kind: KindDuplicate, Message: "duplicate value", Err: err}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &Error{Kind: KindValidation, Message: validationMessage(validationErrs), Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: KindValidation, Message: "invalid request body", Err: err}
	}
	if errors.Is(err, io.EOF) {
		return &Error{Kind: KindValidation, Message: "request body is required", Err: err}
	}

	return Internal(err)
}

func duplicateField(message string) string {
	match := dupKeyField.FindStringSubmatch(message)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func validationMessage(errs validator.ValidationErrors) string {
	details := make([]string, 0, len(errs))
	for _, fieldError := range errs {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required", "notblank":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
		case "len":
			details = append(details, fmt.Sprintf("%s must be exactly %s characters", field, fieldError.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(details, ", ")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
