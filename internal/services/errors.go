package services

import (
	"errors"
	"fmt"

	"transportsystem/avganger/internal/constants"
)

// DepartureError is returned by every departure operation that the user can
// recover from. Message is the text shown in the toast.
type DepartureError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *DepartureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DepartureError) Unwrap() error {
	return e.Err
}

func newDepartureError(code string, err error) *DepartureError {
	return &DepartureError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

func newValidationError(field, message string) *DepartureError {
	if message == "" {
		message = constants.GetErrorMessage(constants.ErrCodeValidation)
	}
	return &DepartureError{
		Code:    constants.ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// IsCode reports whether err is a DepartureError with the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// ErrorCode returns the DepartureError code of err, or "" for other errors.
func ErrorCode(err error) string {
	var depErr *DepartureError
	if errors.As(err, &depErr) {
		return depErr.Code
	}
	return ""
}
