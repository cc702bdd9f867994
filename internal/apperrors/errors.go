package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates that a monetary value could not be parsed.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ErrDivisionByZero indicates a zero divisor or a degenerate distribution weight vector.
var ErrDivisionByZero = errors.New("division by zero")

// ErrAlreadyConfirmed indicates a second confirmation attempt on the same projection.
var ErrAlreadyConfirmed = errors.New("projection already confirmed")

// ErrInvalidState indicates an operation that is not allowed in the resource's current state,
// such as deleting a confirmed projection.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrEmptySelection indicates a distribution was requested with no target entities.
var ErrEmptySelection = errors.New("no targets selected")

// ErrConflict indicates a versioning conflict, such as updating tax settings when no open
// version exists for the tax type.
var ErrConflict = errors.New("conflicting resource state")

// ErrInternal indicates an unexpected system-level failure, distinct from validation errors
// so callers can tell "fix your input" from "try again later".
var ErrInternal = errors.New("internal error")
