package common

import (
	"errors"
	"fmt"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeIO       = "IO_ERROR"
	CodeDatabase = "DB_ERROR"
)

// Common application errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("invalid configuration")
	ErrInternal      = errors.New("internal error")
	ErrDatabase      = errors.New("database error")
	ErrValidation    = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError reports options that cannot be honoured together
func NewConfigError(message string) *AppError {
	return NewAppError(CodeConfig, message, ErrConfiguration)
}

func NewConfigErrorf(format string, args ...interface{}) *AppError {
	return NewConfigError(fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsConfigError reports whether err is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// Process exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitMalformed = 3
)

// ExitCode maps an error to the CLI exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsConfigError(err):
		return ExitConfig
	case errors.Is(err, cutflow.ErrFormat), errors.Is(err, cutflow.ErrStructure):
		return ExitMalformed
	default:
		return ExitFailure
	}
}
