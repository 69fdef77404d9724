package cli

import (
	stderrors "errors"
	"fmt"

	"fastodo/internal/errors"
	"fastodo/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// handledError carries a message already fit for the user and keeps the original error
// reachable through Unwrap.
type handledError struct {
	message string
	cause   error
}

func (e *handledError) Error() string { return e.message }
func (e *handledError) Unwrap() error { return e.cause }

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}

	var handled *handledError
	if stderrors.As(err, &handled) {
		return err
	}

	message := err.Error()
	if validationErr, ok := err.(*validation.ValidationError); ok {
		message = validationErr.GetUserFriendlyMessage()
	} else if _, ok := errors.AsAppError(err); ok {
		message = errors.GetUserMessage(err)
	}
	return &handledError{message: fmt.Sprintf("failed to %s: %s", operation, message), cause: err}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}

	var handled *handledError
	if stderrors.As(err, &handled) {
		return err
	}

	if validationErr, ok := err.(*validation.ValidationError); ok {
		return &handledError{message: validationErr.GetUserFriendlyMessage(), cause: err}
	}

	if _, ok := errors.AsAppError(err); ok {
		return &handledError{message: errors.GetUserMessage(err), cause: err}
	}

	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStorageError checks if an error came from reading or writing the medium
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage) ||
		errors.IsErrorType(err, errors.ErrorTypeDecode) ||
		errors.IsErrorType(err, errors.ErrorTypeReadOnly)
}

// ShouldLog reports whether err is a structured system failure worth a log line. Usage
// mistakes and rejected input are only shown to the user.
func (eh *ErrorHandler) ShouldLog(err error) bool {
	return errors.IsAppError(err) && errors.ShouldLogError(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
