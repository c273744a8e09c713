// Package core is the transport independent token gate for storage requests.
//
// Core.Authorize takes the request path and auth token, and decides one of
// three outcomes: Proceed, BadRequest or Unauthorized. Core.Validate does the
// token check itself: a cached positive verdict is trusted while it is fresh,
// otherwise the authority is asked, and only an accepted verdict is written
// back to the cache. Any failure talking to the authority denies the request.
//
// Every transport adapter wraps a Core.
package core
