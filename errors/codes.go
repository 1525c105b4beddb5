package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration errors
const (
	// ErrCodeEntityNotFound indicates a pivot definition references an
	// entity type that is not registered.
	ErrCodeEntityNotFound ErrorCode = "ENTITY_NOT_FOUND"
	// ErrCodeHandlerNotFound indicates a declarative pivot definition
	// references a handler that could not be resolved from the namespace.
	ErrCodeHandlerNotFound ErrorCode = "HANDLER_NOT_FOUND"
	// ErrCodePivotNotFound indicates a pivot lookup by container and name failed.
	ErrCodePivotNotFound ErrorCode = "PIVOT_NOT_FOUND"
	// ErrCodeInvalidDefinition indicates a pivot definition failed validation.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
	// ErrCodeRegistrationFailed indicates pivot registration failed for
	// a reason other than an unknown entity or handler.
	ErrCodeRegistrationFailed ErrorCode = "REGISTRATION_FAILED"
)

// Provider and query errors
const (
	// ErrCodeProviderNotFound indicates no provider is registered under the key.
	ErrCodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
	// ErrCodeProviderUnavailable indicates the provider is not ready for queries.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeQueryFailed indicates a pivot query failed at the provider.
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidTimespan indicates a timespan with end before start.
	ErrCodeInvalidTimespan ErrorCode = "INVALID_TIMESPAN"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeConfigError indicates configuration could not be loaded or decoded.
	ErrCodeConfigError ErrorCode = "CONFIG_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderUnavailable: true,
	ErrCodeQueryFailed:         true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
