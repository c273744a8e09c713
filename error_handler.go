package devauth

import (
	"errors"
	"net/http"

	"github.com/storagegate/devauth/core"
)

// ErrorHandler answers requests that do not proceed. err matches
// core.ErrBadRequest (as a *core.RequestError) or core.ErrUnauthorized;
// anything else is a failure inside the middleware itself.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler writes 412 with the request error's reason as body for
// bad requests, 401 for unauthorized ones and 500 otherwise.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	var requestErr *core.RequestError
	switch {
	case errors.As(err, &requestErr):
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = w.Write([]byte(requestErr.Reason))
	case errors.Is(err, core.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Something went wrong while checking the auth token."))
	}
}

// StatusCode returns the HTTP status DefaultErrorHandler uses for err.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrBadRequest):
		return http.StatusPreconditionFailed
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
