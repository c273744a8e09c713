package pathutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned when a path does not have the required shape.
var ErrInvalidPath = errors.New("invalid path")

// Split validates and splits path into at most maxSegs segments. At least
// minSegs leading segments must be present and non-empty. Segments past the
// ones present are returned as empty strings; the returned count tells the
// caller how many were actually present.
//
// When restWithLast is true the final segment keeps any remaining slashes,
// so "/v1/a/c/o/with/slashes" split into 4 yields the object "o/with/slashes".
// When it is false, trailing content beyond maxSegs makes the path invalid.
func Split(path string, minSegs, maxSegs int, restWithLast bool) ([]string, int, error) {
	if maxSegs < minSegs {
		return nil, 0, fmt.Errorf("minSegs > maxSegs: %d > %d", minSegs, maxSegs)
	}
	if !strings.HasPrefix(path, "/") {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	var segs []string
	if restWithLast {
		segs = strings.SplitN(path[1:], "/", maxSegs)
	} else {
		segs = strings.Split(path[1:], "/")
		// A single trailing slash is tolerated.
		if len(segs) == maxSegs+1 && segs[maxSegs] == "" {
			segs = segs[:maxSegs]
		}
	}

	count := len(segs)
	if segs[0] == "" || count < minSegs || count > maxSegs {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, s := range segs[:minSegs] {
		if s == "" {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}

	out := make([]string, maxSegs)
	copy(out, segs)
	return out, count, nil
}
