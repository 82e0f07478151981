package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Failure codes produced by the core services. Handlers map these to HTTP
// statuses; the codes themselves are transport-agnostic.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeInvalidDriver        = "INVALID_DRIVER"
	CodeInsufficientQuantity = "INSUFFICIENT_AVAILABLE_QUANTITY"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeItemReserved         = "ITEM_RESERVED"
	CodePersistenceFailure   = "PERSISTENCE_FAILURE"
	CodeValidationError      = "VALIDATION_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the failure code from err, or empty when err is not an
// AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
