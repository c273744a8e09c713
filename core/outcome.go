package core

import "errors"

// Decision is the terminal result of Authorize.
type Decision int

const (
	// Proceed hands the request to the next handler untouched.
	Proceed Decision = iota
	// BadRequest rejects a malformed request with 412.
	BadRequest
	// Unauthorized rejects a request whose token is not valid with 401.
	Unauthorized
)

// String returns the decision name used in logs and metric labels.
func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Outcome is the result of Authorize.
type Outcome struct {
	Decision Decision

	// Err is nil on Proceed. Otherwise it is ErrBadURL, ErrMissingToken or
	// ErrUnauthorized.
	Err error

	// Target is the parsed request path; zero when the path was invalid.
	Target Target

	// Credential is set once both account and token are known.
	Credential Credential
}

// Reason is the response body for a BadRequest outcome, empty otherwise.
func (o Outcome) Reason() string {
	var re *RequestError
	if errors.As(o.Err, &re) {
		return re.Reason
	}
	return ""
}
