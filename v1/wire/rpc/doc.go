// Package rpc speaks the Qdrant gRPC protocol.
//
// It holds three things:
//
//   - codecs between vectordb values and the generated protobuf messages of
//     github.com/qdrant/go-client/qdrant (PointIDs, Values, Filters, Queries, ...)
//   - Classify and ClassifyError, which map gRPC status codes onto vectordb
//     error kinds
//   - Backend, an implementation of vectordb.Service over the generated
//     service clients
//
// # Encoding
//
// Every union variant occupies exactly one slot of the matching protobuf
// oneof. Optional scalars use field presence, so a nil *uint64 in a request
// is an absent field on the wire. Distance and field types use the protobuf
// enums directly; only the REST protocol cares about string casing.
//
// Decoders never fill in defaults. An empty oneof, an unknown enum number or
// a vector kind the domain model cannot represent (sparse, multi) is a
// TypeMismatch or DataCorrupted error whose Path points at the offending
// field, for example "$.must[2].match".
//
// # Usage
//
//	client, err := qdrant.NewClient(&qdrant.Config{Host: "localhost", Port: 6334})
//	if err != nil {
//	    return err
//	}
//	backend := rpc.NewBackend(client)
//	defer backend.Close()
//
//	hits, err := backend.Query(ctx, vectordb.QueryRequest{
//	    Collection: "docs",
//	    Query:      vectordb.NewQueryNearest(0.1, 0.2, 0.3),
//	    Limit:      vectordb.Ptr[uint64](5),
//	})
//
// Most callers should not build a Backend directly; the qdrant package
// wraps it with configuration, the TLS gate, logging and metrics.
package rpc
