package devauthgrpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/storagegate/devauth/core"
)

// Metadata keys read by MetadataRequestExtractor. gRPC lowercases keys.
const (
	AuthTokenKey    = "x-auth-token"
	StorageTokenKey = "x-storage-token"
	StoragePathKey  = "x-storage-path"
)

// RequestExtractor builds the gate's view of a call.
type RequestExtractor func(ctx context.Context, fullMethod string) (core.Request, error)

// MetadataRequestExtractor reads the storage path from x-storage-path and
// the token from x-auth-token, falling back to x-storage-token when
// x-auth-token is absent. Missing metadata yields an empty request, which
// the gate rejects as a bad URL.
func MetadataRequestExtractor(ctx context.Context, _ string) (core.Request, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return core.Request{}, nil
	}

	var path string
	if values := md.Get(StoragePathKey); len(values) > 0 {
		path = values[0]
	}
	return core.Request{
		Path:  path,
		Token: core.ResolveToken(md.Get(AuthTokenKey), md.Get(StorageTokenKey)),
	}, nil
}

// MethodPathExtractor is MetadataRequestExtractor with the path derived from
// the method name: /pkg.Service/Method becomes /<version>/<account>/pkg.Service/Method
// where the account comes from the given metadata key.
func MethodPathExtractor(version, accountKey string) RequestExtractor {
	return func(ctx context.Context, fullMethod string) (core.Request, error) {
		req, err := MetadataRequestExtractor(ctx, fullMethod)
		if err != nil {
			return core.Request{}, err
		}
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get(accountKey)
		if len(values) == 0 || values[0] == "" {
			req.Path = "/" + version
			return req, nil
		}
		req.Path = "/" + version + "/" + values[0] + "/" + strings.TrimPrefix(fullMethod, "/")
		return req, nil
	}
}
