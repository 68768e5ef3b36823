// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                     // Resource not found errors (404 Not Found)
	ErrorTypeConflict                     // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                     // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                  // No usable account in the pool (503 Service Unavailable)
	ErrorTypeExhausted                    // Every pool account was tried and failed (502 Bad Gateway)
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	var exhaustedErr *ExhaustedError
	if errors.As(err, &exhaustedErr) {
		return ErrorTypeExhausted
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

// NewNoAccountsAvailableError indicates that no account in the pool can
// serve a request: the pool is empty, or every account is suspended or
// already excluded.
func NewNoAccountsAvailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// AuthError is a failed OAuth token exchange against the provider. It
// carries the provider's HTTP status and OAuth error code so that the
// orchestrator can decide whether to suspend the account.
type AuthError struct {
	AccountID  string
	StatusCode int
	Code       string
	Err        error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("token exchange failed for account %s", e.AccountID)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d, code %q)", msg, e.StatusCode, e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Suspends reports whether the failure indicates bad or revoked
// credentials, in which case the account should be taken out of rotation.
func (e *AuthError) Suspends() bool {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return true
	}
	return strings.EqualFold(e.Code, "invalid_client")
}

// ProviderError is a non-2xx response from a provider meeting API call.
type ProviderError struct {
	StatusCode int
	Code       int // provider-specific error code from the response body
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider API error (status %d)", e.StatusCode)
}

// AuthShaped reports whether the provider rejected the bearer token
// itself, which should suspend the account the same way a failed token
// exchange does.
func (e *ProviderError) AuthShaped() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NotFound reports whether the provider no longer knows the resource.
func (e *ProviderError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ExhaustedError means a create request tried every account in the pool
// and all of them failed. Tried holds the account IDs in attempt order;
// the wrapped error joins the per-account causes.
type ExhaustedError struct {
	Tried []string
	Err   error
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("all %d accounts failed (tried: %s)", len(e.Tried), strings.Join(e.Tried, ", "))
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// NewExhaustedError creates an ExhaustedError from the attempted account
// IDs and their individual failures.
func NewExhaustedError(tried []string, errs ...error) *ExhaustedError {
	return &ExhaustedError{Tried: tried, Err: errors.Join(errs...)}
}
