// Package serviceerr defines the error taxonomy shared by the service
// components and the HTTP layer. Authentication and provider failures are
// normalized into *Error values carrying an RFC6749-style code; handlers map
// the code to an HTTP status and never leak provider-library errors.
package serviceerr

import (
	"fmt"
	"net/http"
)

type Code string

// RFC6749 error codes, as reported by the identity provider's token endpoint.
const (
	CodeInvalidRequest         Code = "invalid_request"
	CodeUnauthorizedClient     Code = "unauthorized_client"
	CodeAccessDenied           Code = "access_denied"
	CodeInvalidClient          Code = "invalid_client"
	CodeInvalidGrant           Code = "invalid_grant"
	CodeUnsupportedGrantType   Code = "unsupported_grant_type"
	CodeInvalidScope           Code = "invalid_scope"
	CodeServerError            Code = "server_error"
	CodeTemporarilyUnavailable Code = "temporarily_unavailable"
)

// Service-specific codes.
const (
	CodeUnknown      Code = "unknown"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeStateExpired Code = "state_expired"
)

// Error is a service error with a stable code and a human-readable
// description. Provider-reported failures keep the provider's code so the
// cause stays distinguishable after normalization.
type Error struct {
	Err         Code
	Description string
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// HTTPStatus maps the error code to the HTTP status the public API returns.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest, CodeInvalidClient, CodeInvalidScope, CodeUnsupportedGrantType:
		return http.StatusBadRequest
	case CodeUnauthorizedClient, CodeInvalidGrant:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStateExpired:
		return http.StatusGone
	case CodeTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Provider builds an error from an identity-provider error payload,
// preserving the provider's code and description. An empty code degrades to
// server_error.
func Provider(code, description string) *Error {
	if code == "" {
		code = string(CodeServerError)
	}

	return &Error{Err: Code(code), Description: description}
}

// Unauthorizedf builds an authentication error with a detailed description.
// The description is meant for server-side logs; handlers render
// ErrUnauthorized instead to avoid leaking which claim or check failed.
func Unauthorizedf(format string, args ...any) *Error {
	return &Error{Err: CodeUnauthorizedClient, Description: fmt.Sprintf(format, args...)}
}

var (
	ErrUnknown      = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrNotFound     = &Error{Err: CodeNotFound, Description: "not found"}
	ErrConflict     = &Error{Err: CodeConflict, Description: "already exists"}
	ErrStateExpired = &Error{Err: CodeStateExpired, Description: "login state expired"}

	// ErrUnauthorized is the only authentication error body the API renders.
	ErrUnauthorized = &Error{Err: CodeUnauthorizedClient, Description: "invalid credentials"}
)
