package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies an application error and decides the HTTP status it maps to.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindConflict
	KindUnauthorized
	KindMethodNotAllowed
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Machine readable error codes returned to API consumers.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidUUID         = "INVALID_UUID"
	CodeInvalidUpdateFields = "INVALID_UPDATE_FIELDS"
	CodeMissingSearch       = "MISSING_SEARCH_CRITERIA"
	CodeRouteNotFound       = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"

	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"

	CodeMissingUserID     = "MISSING_USER_ID"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeDBOperationFailed = "DB_OPERATION_FAILED"
	CodeUserCreateFailed  = "USER_CREATION_FAILED"
	CodeUserUpdateFailed  = "USER_UPDATE_FAILED"
	CodeUserDeleteFailed  = "USER_DELETE_FAILED"
	CodeUserSearchFailed  = "USER_SEARCH_FAILED"

	CodeMissingTaskID         = "MISSING_TASK_ID"
	CodeTaskNotFound          = "TASK_NOT_FOUND"
	CodeTaskPersistenceFailed = "TASK_PERSISTENCE_FAILED"
	CodeTaskCreateFailed      = "TASK_CREATION_FAILED"
	CodeTaskUpdateFailed      = "TASK_UPDATE_FAILED"
	CodeTaskDeleteFailed      = "TASK_DELETE_FAILED"
	CodeTaskFindFailed        = "TASK_FIND_FAILED"
	CodeInternal              = "INTERNAL_ERROR"
)

// AppError is the structured error every use-case returns to its caller.
// Err holds the internal cause; it is logged but never rendered.
type AppError struct {
	Kind       Kind
	Code       string
	Message    string
	Suggestion string
	Fields     map[string]string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error.
func (e *AppError) Status() int {
	return e.Kind.Status()
}

// WithSuggestion attaches a hint for the API consumer.
func (e *AppError) WithSuggestion(s string) *AppError {
	e.Suggestion = s
	return e
}

// WithCause records the internal cause.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// WithFields attaches field level validation details.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

func newError(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// BadRequest builds a malformed-input error.
func BadRequest(code, message string) *AppError {
	return newError(KindBadRequest, code, message)
}

// NotFound builds a missing-entity error.
func NotFound(code, message string) *AppError {
	return newError(KindNotFound, code, message)
}

// Conflict builds a uniqueness violation error.
func Conflict(code, message string) *AppError {
	return newError(KindConflict, code, message)
}

// Unauthorized builds a credential error.
func Unauthorized(code, message string) *AppError {
	return newError(KindUnauthorized, code, message)
}

// MethodNotAllowed builds an error for a known route hit with the wrong method.
func MethodNotAllowed(code, message string) *AppError {
	return newError(KindMethodNotAllowed, code, message)
}

// Internal builds an unexpected failure error.
func Internal(code, message string) *AppError {
	return newError(KindInternal, code, message)
}

// As reports whether err is, or wraps, an *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	ErrorCode  string            `json:"errorCode"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Path       string            `json:"path,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// ToErrorResponse converts an AppError to its wire form.
func (e *AppError) ToErrorResponse(path string, now time.Time) ErrorResponse {
	return ErrorResponse{
		StatusCode: e.Status(),
		ErrorCode:  e.Code,
		Message:    e.Message,
		Suggestion: e.Suggestion,
		Fields:     e.Fields,
		Path:       path,
		Timestamp:  now.UTC(),
	}
}

// MapErrorToHTTP returns known application errors unchanged and hides
// everything else behind a generic internal error.
func MapErrorToHTTP(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(CodeInternal, "internal server error").WithCause(err)
}
