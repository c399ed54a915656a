package model

import "fmt"

// Standard error codes.
const (
	ErrBadRequest      = "BAD_REQUEST"
	ErrNotFound        = "NOT_FOUND"
	ErrConflict        = "CONFLICT"
	ErrValidationError = "VALIDATION_ERROR"
	ErrInternalError   = "INTERNAL_ERROR"
)

// Import-run error codes.
const (
	ErrRunNotFound     = "RUN_NOT_FOUND"
	ErrRunNotActive    = "RUN_NOT_ACTIVE"
	ErrNoPendingChoice = "NO_PENDING_CHOICE"
	ErrUnknownChoice   = "UNKNOWN_CHOICE"
)

// ErrorEnvelope is the standard error type returned across package
// boundaries. It implements the error interface.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewConflictError returns a CONFLICT error.
func NewConflictError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrConflict, Message: msg}
}

// NewValidationError returns a VALIDATION_ERROR.
func NewValidationError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrValidationError, Message: msg}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}

// NewRunNotFoundError returns a RUN_NOT_FOUND error.
func NewRunNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrRunNotFound, Message: msg}
}

// NewRunNotActiveError returns a RUN_NOT_ACTIVE error.
func NewRunNotActiveError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrRunNotActive, Message: msg}
}

// NewNoPendingChoiceError returns a NO_PENDING_CHOICE error.
func NewNoPendingChoiceError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNoPendingChoice, Message: msg}
}

// NewUnknownChoiceError returns an UNKNOWN_CHOICE error.
func NewUnknownChoiceError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrUnknownChoice, Message: msg}
}
