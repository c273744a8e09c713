/*
Package devauth is net/http middleware that gates storage requests on a
token checked by a remote authority.

For each request the middleware reads the account from the path
(/<version>/<account>[/<container>[/<object>]]) and the token from
X-Auth-Token, falling back to the legacy X-Storage-Token when X-Auth-Token
is absent. Positive verdicts from the authority are cached for the TTL the
authority returns, so most requests never leave the process.

Outcomes map to responses as follows:

  - no account in the path: 412 Precondition Failed, body "Bad URL"
  - no token: 412 Precondition Failed, body "Missing Auth Token"
  - token not valid, or authority unreachable: 401 Unauthorized
  - otherwise the request is passed to the next handler untouched

# Quick Start

	client, err := authority.New(
	    authority.WithHost("10.0.0.5"),
	    authority.WithPort(11000),
	)
	if err != nil {
	    log.Fatal(err)
	}

	store, err := cache.DialRedis(ctx, "127.0.0.1:6379", 0)
	if err != nil {
	    log.Fatal(err)
	}

	gate, err := devauth.New(
	    devauth.WithChecker(client),
	    devauth.WithStore(store),
	    devauth.WithLogger(slog.Default()),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.ListenAndServe(":8080", gate.CheckAuth(storageHandler))

NewFromConfig builds the same thing from a flat configuration mapping
(ip, port, ssl, node_timeout, cache_prefix). The devauth command in
cmd/devauth runs the middleware as a standalone reverse proxy.

# Reading the credential

Handlers behind the middleware can read the account the request was
authorized for:

	cred, err := devauth.GetCredential(r.Context())

# Other frameworks

The packages under framework/ adapt the same core.Core to gin, echo, iris
and gRPC.
*/
package devauth
