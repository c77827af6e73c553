// Package qdrant provides a dependency-injected client for the Qdrant vector database.
//
// Client is the operation facade of this module. Each method maps onto one
// server operation and runs over either the binary gRPC protocol (package
// wire/rpc) or JSON over HTTP (package wire/rest). Both protocols take and
// return the same vectordb values, so switching Config.Protocol changes
// nothing in application code.
//
// # Core Features
//
//   - gRPC or REST, selected by configuration
//   - TLS policy enforced before any network activity
//   - Config from environment (.env files supported), YAML or builder methods
//   - One OpenTelemetry span, one log entry and one metric sample per operation
//   - Fx module with a startup health check
//   - Implements vectordb.Service
//
// # Basic Usage
//
//	client, err := qdrant.NewClient(qdrant.FromHost("localhost"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.EnsureCollection(ctx, vectordb.CreateCollectionRequest{
//	    Name:    "docs",
//	    Vectors: vectordb.VectorParams{Size: 384, Distance: vectordb.Cosine},
//	})
//
//	_, err = client.Upsert(ctx, vectordb.UpsertRequest{
//	    Collection: "docs",
//	    Points: []vectordb.PointStruct{{
//	        ID:      vectordb.NewIDNum(1),
//	        Vectors: vectordb.Vector(embedding),
//	        Payload: vectordb.MustPayload(map[string]any{"lang": "de", "year": 2024}),
//	    }},
//	    Wait: vectordb.Ptr(true),
//	})
//
//	hits, err := client.Search(ctx, vectordb.SearchRequest{
//	    Collection:  "docs",
//	    Vector:      embedding,
//	    Filter:      vectordb.NewFilter(vectordb.NewMatchKeyword("lang", "de")),
//	    Limit:       10,
//	    WithPayload: true,
//	})
//
// # Multi-stage Queries
//
// Query takes a prefetch tree; each stage narrows the candidates of the next.
//
//	hits, err := client.Query(ctx, vectordb.QueryRequest{
//	    Collection: "docs",
//	    Prefetch: []vectordb.PrefetchQuery{
//	        {Query: vectordb.NewQueryNearest(dense...), Using: vectordb.Ptr("dense"), Limit: vectordb.Ptr[uint64](100)},
//	        {Query: vectordb.NewQueryNearest(title...), Using: vectordb.Ptr("title"), Limit: vectordb.Ptr[uint64](100)},
//	    },
//	    Query: vectordb.NewQueryFusion(vectordb.RRF),
//	    Limit: vectordb.Ptr[uint64](10),
//	})
//
// Search, Recommend and Discover (with their Batch and Groups variants) are
// spelled as universal queries before they are sent.
//
// # TLS Policy
//
// Config.UseTLS left nil enables TLS for every host except localhost,
// 127.0.0.1, ::1 and [::1]. Setting it to false for any other host makes
// NewClient fail with vectordb.ErrTLSRequiredForRemoteHost.
//
// # Errors
//
// Every failure is a *vectordb.Error. Test the kind with errors.Is:
//
//	if errors.Is(err, vectordb.ErrCollectionNotFound) {
//	    ...
//	}
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,  // optional
//	    metrics.FXModule, // optional: operation metrics land in its registry
//	    qdrant.FXModule,
//	    fx.Provide(func() (*qdrant.Config, error) {
//	        return qdrant.LoadConfigFromEnv(".env")
//	    }),
//	)
//
// # Configuration
//
//	QDRANT_HOST=localhost
//	QDRANT_GRPC_PORT=6334
//	QDRANT_REST_PORT=6333
//	QDRANT_PROTOCOL=grpc              # grpc or rest
//	QDRANT_USE_TLS=true               # unset: automatic
//	QDRANT_API_KEY=...
//	QDRANT_TIMEOUT=30s
//	QDRANT_CHECK_COMPATIBILITY=false
//	QDRANT_POOL_SIZE=3
//
// # Thread Safety
//
// A Client is safe for concurrent use. Batch methods send one request; they
// never fan out.
//
// # Testing
//
// WithBackend replaces the protocol backend, e.g. with rest.NewBackend over a
// test transport. Integration tests start a qdrant/qdrant container and are
// skipped with -short.
package qdrant
