package shared

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidCriteria  = "INVALID_CRITERIA"
	CodeInvalidContext   = "INVALID_CONTEXT"
	CodePricingFailed    = "PRICING_FAILED"
	CodeListenerFailed   = "LISTENER_FAILED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return de.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error with an underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors, usable as errors.Is targets
var (
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation      = NewDomainError(CodeValidationFailed, "Validation failed")
	ErrInvalidCriteria = NewDomainError(CodeInvalidCriteria, "Invalid search criteria")
	ErrInvalidContext  = NewDomainError(CodeInvalidContext, "Invalid context")
	ErrPricing         = NewDomainError(CodePricingFailed, "Price calculation failed")
	ErrListener        = NewDomainError(CodeListenerFailed, "Event listener failed")
)

// NewValidationError reports a malformed write payload
func NewValidationError(message string, err error) *DomainError {
	return WrapDomainError(CodeValidationFailed, message, err)
}

// NewPricingError reports a missing price row or a rejected price definition
func NewPricingError(message string, err error) *DomainError {
	return WrapDomainError(CodePricingFailed, message, err)
}

// NewListenerError reports a listener failure for the named event
func NewListenerError(eventName string, err error) *DomainError {
	return WrapDomainError(CodeListenerFailed, fmt.Sprintf("listener for %q failed", eventName), err)
}
