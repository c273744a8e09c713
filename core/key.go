package core

// DefaultCacheKeyPrefix namespaces verdicts in a shared cache.
const DefaultCacheKeyPrefix = "auth"

// CacheKey returns "<prefix>/<account>/<token>". Account comes from a single
// path segment and never contains a slash, so distinct pairs never share a
// key. No case folding or decoding is applied: "Acct" and "acct" are
// different accounts.
func CacheKey(prefix, account, token string) string {
	return prefix + "/" + account + "/" + token
}
