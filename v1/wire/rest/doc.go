// Package rest speaks the Qdrant REST protocol: JSON with snake_case keys
// over HTTP.
//
// It mirrors package rpc:
//
//   - codecs between vectordb values and JSON documents (PointIDs, Values,
//     Filters, Queries, ...), each a vectordb.Codec[T, json.RawMessage]
//   - ClassifyResponse and ClassifyTransportError, which map HTTP statuses
//     and transport failures onto vectordb error kinds
//   - Backend, an implementation of vectordb.Service over a Transport
//
// # Encoding
//
// JSON has no tagged unions, so decoders try variants in a fixed order and
// take the first that fits. For payload values the order is null, bool,
// integer, double, string, array, object: a number literal without fraction
// or exponent is an integer, which is why doubles are always written with
// one ("3.0", never "3"). Point ids are an unsigned integer or a UUID string.
// Match values are tried as text, any, except, then a scalar value.
//
// Distances are capitalised ("Cosine") and field schemas lowercase
// ("keyword"), as the server expects. The wait flag of write operations
// travels as a query parameter, everything else in the body. Every response
// except the health check wraps its answer in {"result": ...}.
//
// NaN and infinities have no JSON spelling and are rejected with
// DataCorrupted on encode.
//
// # Usage
//
//	transport, err := rest.NewHTTPTransport("http://localhost:6333", apiKey, 30*time.Second)
//	if err != nil {
//	    return err
//	}
//	backend := rest.NewBackend(transport)
//	defer backend.Close()
//
//	exists, err := backend.CollectionExists(ctx, "docs")
//
// Most callers should not build a Backend directly; the qdrant package
// wraps it with configuration, the TLS gate, logging and metrics.
package rest
