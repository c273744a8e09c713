package core

import (
	"github.com/storagegate/devauth/internal/pathutil"
)

const (
	// AuthTokenHeader carries the token.
	AuthTokenHeader = "X-Auth-Token"

	// StorageTokenHeader is the legacy name for AuthTokenHeader.
	StorageTokenHeader = "X-Storage-Token"
)

// Request is what the gate needs from an inbound request.
type Request struct {
	Path  string
	Token string
}

// Credential identifies who a request claims to be. It lives only as long
// as the request does.
type Credential struct {
	Account string
	Token   string
}

// Target is a parsed storage path. Account is empty when the path has none;
// Container and Object are empty when absent.
type Target struct {
	Version   string
	Account   string
	Container string
	Object    string
}

// ResolveToken picks the token from the values of the X-Auth-Token and
// X-Storage-Token headers. The legacy header is used only when
// X-Auth-Token is absent altogether; when both are present X-Auth-Token wins.
func ResolveToken(authValues, storageValues []string) string {
	if len(authValues) > 0 {
		return authValues[0]
	}
	if len(storageValues) > 0 {
		return storageValues[0]
	}
	return ""
}

// SplitPath parses /<version>[/<account>[/<container>[/<object>]]]. The
// object keeps any slashes it contains.
func SplitPath(path string) (Target, error) {
	segs, _, err := pathutil.Split(path, 1, 4, true)
	if err != nil {
		return Target{}, err
	}
	return Target{
		Version:   segs[0],
		Account:   segs[1],
		Container: segs[2],
		Object:    segs[3],
	}, nil
}
