package core

import (
	"errors"

	"github.com/storagegate/devauth/authority"
)

var (
	// ErrBadRequest is matched by every client error that maps to
	// 412 Precondition Failed.
	ErrBadRequest = errors.New("bad request")

	// ErrBadURL is returned when the request path has no account.
	ErrBadURL error = &RequestError{Reason: "Bad URL"}

	// ErrMissingToken is returned when neither X-Auth-Token nor
	// X-Storage-Token carries a value.
	ErrMissingToken error = &RequestError{Reason: "Missing Auth Token"}

	// ErrUnauthorized is returned when the token is not valid for the account.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAuthorityUnavailable matches failures talking to the authority. It
	// is logged, never returned to the caller: an unreachable authority
	// looks exactly like an invalid token.
	ErrAuthorityUnavailable = authority.ErrUnavailable

	// ErrCredentialNotFound is returned when no credential is stored in a context.
	ErrCredentialNotFound = errors.New("credential not found in context")
)

// RequestError is a malformed request. Reason is the response body.
type RequestError struct {
	Reason string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return "bad request: " + e.Reason
}

// Is allows the error to be compared with ErrBadRequest.
func (e *RequestError) Is(target error) bool {
	return target == ErrBadRequest
}
