// Package errors provides unified error handling for pivotkit.
// It implements structured error types with machine-readable codes,
// HTTP status mapping for the window editor, and retryable detection.
package errors
