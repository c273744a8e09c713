// Package pathutil splits storage request paths into their
// version/account/container/object segments.
package pathutil
