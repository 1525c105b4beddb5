// Package validation provides input validation helpers producing
// structured AppError values.
//
// Struct validates with `validate:` struct tags via go-playground/validator;
// the chained Validator collects field errors for hand-written checks.
package validation
