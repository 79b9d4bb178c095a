// Package domainerrors provides coded errors for the trust core. Every failure
// surfaced to the request boundary carries a Code so transports can map it to a
// stable response without string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain failure.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"

	// Token lifecycle taxonomy. Expired, invalid and revoked tokens all
	// resolve to "re-authenticate" at the boundary; a replayed refresh token
	// is additionally a security signal.
	CodeTokenExpired  Code = "token_expired"
	CodeTokenInvalid  Code = "token_invalid"
	CodeTokenRevoked  Code = "token_revoked"
	CodeRefreshReused Code = "refresh_token_reused"

	// CodePolicyUnavailable reports a policy store outage. Authorization
	// checks translate it into deny, never into allow.
	CodePolicyUnavailable Code = "policy_store_unavailable"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the status the boundary should answer with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeTokenExpired, CodeTokenInvalid, CodeTokenRevoked, CodeRefreshReused:
		return http.StatusUnauthorized
	case CodePolicyUnavailable:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
