/*
Package authority is a client for the token authority that decides whether a
token is valid for a storage account.

The protocol is a single round trip:

	GET /token/<account>/<token>

A 204 No Content response carrying an X-Auth-TTL header (seconds, may be
fractional) accepts the token for that long. Any other status, or a 204 whose
X-Auth-TTL is missing or unusable, rejects it. Transport errors and timeouts
are reported as failures, never as acceptance.

# Usage

	client, err := authority.New(
	    authority.WithHost("10.0.0.5"),
	    authority.WithPort(11000),
	    authority.WithTimeout(10*time.Second),
	)
	if err != nil {
	    log.Fatal(err)
	}

	v := client.Check(ctx, "acct1", "tok1")
	switch v.Kind {
	case authority.Accepted:
	    // trust the token for v.TTL
	case authority.Rejected:
	    // token is not valid
	case authority.Failed:
	    // authority unreachable, v.Err wraps ErrUnavailable
	}
*/
package authority
