package errors

import (
	stderrors "errors"
	"fmt"
)

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Error codes used across the API. Callers branch on these rather than
// on messages.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeNotFound           = "NOT_FOUND"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeFailedPrecondition = "FAILED_PRECONDITION"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error constructors
func NewUnauthenticated(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeUnauthenticated,
		Message: message,
		Status:  401,
	}
}

func NewInvalidArgument(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInvalidArgument,
		Message: message,
		Status:  400,
	}
}

func NewNotFound(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func NewPermissionDenied(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodePermissionDenied,
		Message: message,
		Status:  403,
	}
}

func NewFailedPrecondition(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeFailedPrecondition,
		Message: message,
		Status:  409,
	}
}

func NewConflictError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeConflict,
		Message: message,
		Status:  409,
	}
}

func NewInternalError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInternal,
		Message: message,
		Status:  500,
	}
}

// CodeOf returns the error code of err, or CodeInternal for errors that
// did not originate from this package.
func CodeOf(err error) string {
	var appErr *ApplicationError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// StatusOf returns the HTTP status associated with err.
func StatusOf(err error) int {
	var appErr *ApplicationError
	if stderrors.As(err, &appErr) {
		return appErr.Status
	}
	return 500
}
