package devauth

import (
	"net/http"
	"strings"

	"github.com/storagegate/devauth/core"
)

// RequestExtractor reads the path and token the gate decides on. An error
// means the request could not be read at all; a missing token is not an
// error and is reported by returning an empty Token.
type RequestExtractor func(r *http.Request) (core.Request, error)

// DefaultRequestExtractor uses the decoded URL path and X-Auth-Token,
// falling back to X-Storage-Token when X-Auth-Token is absent.
func DefaultRequestExtractor(r *http.Request) (core.Request, error) {
	return core.Request{
		Path: r.URL.Path,
		Token: core.ResolveToken(
			r.Header.Values(core.AuthTokenHeader),
			r.Header.Values(core.StorageTokenHeader),
		),
	}, nil
}

// StripPrefixExtractor removes a mount prefix from the path before handing
// the request to next, for gates mounted below the root of a router.
// Paths without the prefix are passed through unchanged and will usually be
// rejected as a bad URL.
func StripPrefixExtractor(prefix string, next RequestExtractor) RequestExtractor {
	prefix = strings.TrimSuffix(prefix, "/")
	return func(r *http.Request) (core.Request, error) {
		req, err := next(r)
		if err != nil {
			return core.Request{}, err
		}
		if rest, ok := strings.CutPrefix(req.Path, prefix); ok && strings.HasPrefix(rest, "/") {
			req.Path = rest
		}
		return req, nil
	}
}
