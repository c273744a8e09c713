package authority

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is matched by every error carried in a Failed verdict.
var ErrUnavailable = errors.New("authority unavailable")

// Kind classifies a Verdict.
type Kind int

const (
	// Failed means the authority could not be consulted: connection error,
	// timeout, or a response that could not be read.
	Failed Kind = iota
	// Accepted means the token is valid for Verdict.TTL.
	Accepted
	// Rejected means the authority answered and did not accept the token.
	Rejected
)

// String returns the lower case name of the kind, used as a metric label.
func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "failed"
	}
}

// Verdict is the result of a single authority round trip.
type Verdict struct {
	Kind Kind

	// TTL is how long an Accepted verdict may be trusted.
	TTL time.Duration

	// Status is the HTTP status the authority answered with, zero on failure.
	Status int

	// Reason is a short description of why the token was rejected.
	Reason string

	// Err is set for Failed verdicts and matches ErrUnavailable.
	Err error
}

func accepted(status int, ttl time.Duration) Verdict {
	return Verdict{Kind: Accepted, Status: status, TTL: ttl}
}

func rejected(status int, reason string) Verdict {
	return Verdict{Kind: Rejected, Status: status, Reason: reason}
}

func failed(op string, err error) Verdict {
	return Verdict{Kind: Failed, Err: &UnavailableError{Op: op, Err: err}}
}

// UnavailableError wraps the transport level cause of a Failed verdict.
type UnavailableError struct {
	// Op is the step that failed: "request", "connect" or "read".
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is allows the error to be compared with ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
