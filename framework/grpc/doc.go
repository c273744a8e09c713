// Package devauthgrpc gates gRPC calls with the same engine as the HTTP
// middleware.
//
// The storage path is read from the x-storage-path metadata key and the
// token from x-auth-token (or x-storage-token). Bad requests fail with
// FailedPrecondition and invalid tokens with Unauthenticated.
//
//	engine := gate.Core()
//	interceptor, err := devauthgrpc.New(engine,
//	    devauthgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Handlers read the admitted credential with core.GetCredential.
package devauthgrpc
