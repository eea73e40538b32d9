package apierror

import (
	"errors"
	"fmt"
)

// Machine-readable codes shared by the auth pipeline and the handlers.
const (
	CodeAuthenticationFailed  = "AUTHENTICATION_FAILED"
	CodeMissingCredential     = "MISSING_CREDENTIAL"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeRevokedToken          = "REVOKED_TOKEN"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeValidation            = "VALIDATION_ERROR"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodePayloadTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType  = "UNSUPPORTED_MEDIA_TYPE"
	CodeUpstream              = "UPSTREAM_ERROR"
	CodeRateLimited           = "RATE_LIMITED"
	CodeRequestTimeout        = "REQUEST_TIMEOUT"
	CodeInternal              = "INTERNAL_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Validation builds a 400 VALIDATION_ERROR naming the offending field.
func Validation(message string, field string) *APIError {
	return New(CodeValidation, message, field, 400)
}

// HasCode reports whether err is an *APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
