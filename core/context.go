package core

import "context"

type contextKey int

const (
	credentialKey contextKey = iota
)

// SetCredential stores the credential of an authorized request in ctx.
func SetCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, credentialKey, cred)
}

// GetCredential returns the credential stored by SetCredential.
func GetCredential(ctx context.Context) (Credential, error) {
	cred, ok := ctx.Value(credentialKey).(Credential)
	if !ok {
		return Credential{}, ErrCredentialNotFound
	}
	return cred, nil
}

// HasCredential reports whether ctx carries a credential.
func HasCredential(ctx context.Context) bool {
	_, ok := ctx.Value(credentialKey).(Credential)
	return ok
}
