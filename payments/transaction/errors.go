package transaction

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable domain error code.
type ErrorCode string

const (
	// ErrorInvalidInput indicates a record failed validation.
	ErrorInvalidInput ErrorCode = "1001"
	// ErrorDuplicateTransaction indicates a deposit or withdrawal reused a transaction id.
	ErrorDuplicateTransaction ErrorCode = "1003"
)

// DomainError is a structured domain validation error.
type DomainError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error returns the formatted domain error string.
func (e DomainError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// Is matches any DomainError carrying the same code.
func (e DomainError) Is(target error) bool {
	var other DomainError
	if !errors.As(target, &other) {
		return false
	}

	return other.Code == e.Code
}

// NewDomainError creates a domain error with code, field, and message.
func NewDomainError(code ErrorCode, field, message string) error {
	return DomainError{Code: code, Field: field, Message: message}
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	return ""
}
