package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// ErrorResponse is the wire form of an AppError.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the serializable error fields.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts the error to its wire form. The cause is never
// serialized.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the error code from an error chain. Errors without an
// AppError in the chain map to ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// EntityNotFound creates a new AppError for an unrecognized entity type.
func EntityNotFound(entityType string) *AppError {
	return &AppError{
		Code: ErrCodeEntityNotFound, Message: fmt.Sprintf("Entity type %q is not recognized.", entityType),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"entity": entityType},
	}
}

// HandlerNotFound creates a new AppError for an unresolvable pivot handler reference.
func HandlerNotFound(funcRef string) *AppError {
	return &AppError{
		Code: ErrCodeHandlerNotFound, Message: fmt.Sprintf("Pivot handler %q could not be resolved from the namespace.", funcRef),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"func_ref": funcRef},
	}
}

// PivotNotFound creates a new AppError for a missing pivot function.
func PivotNotFound(entityType, container, name string) *AppError {
	return &AppError{
		Code: ErrCodePivotNotFound, Message: fmt.Sprintf("No pivot %q in container %q for entity %q.", name, container, entityType),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"entity": entityType, "container": container, "pivot": name},
	}
}

// InvalidDefinition creates a new AppError for a pivot definition that failed validation.
func InvalidDefinition(key, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidDefinition, Message: fmt.Sprintf("Invalid pivot definition %q: %s", key, reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"definition": key},
	}
}

// RegistrationFailed creates a new AppError for a failed registration step.
func RegistrationFailed(step string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRegistrationFailed, Message: fmt.Sprintf("Pivot registration step %q failed.", step),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"step": step}, Cause: cause,
	}
}

// ProviderNotFound creates a new AppError for a missing provider.
func ProviderNotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodeProviderNotFound, Message: fmt.Sprintf("No provider registered under key %q.", key),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"provider": key},
	}
}

// ProviderUnavailable creates a new AppError for a provider that is not ready.
func ProviderUnavailable(name string) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnavailable, Message: fmt.Sprintf("Provider %q is not available. Please try again.", name),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": name},
	}
}

// QueryFailed creates a new AppError for a pivot query that failed at the provider.
func QueryFailed(provider, query string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeQueryFailed, Message: fmt.Sprintf("Query %q against provider %q failed.", query, provider),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"provider": provider, "query": query}, Cause: cause,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidTimespan creates a new AppError for a timespan whose end precedes its start.
func InvalidTimespan(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidTimespan, Message: fmt.Sprintf("Invalid timespan: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// ConfigError creates a new AppError for configuration that could not be loaded.
func ConfigError(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConfigError, Message: fmt.Sprintf("Configuration error: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
