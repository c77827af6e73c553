// Package vectordb is the protocol-neutral domain model of the Qdrant client.
//
// # Overview
//
// Everything a caller builds or receives lives here: point ids, payload
// values, vectors, filters, queries, request and result shapes, and the
// single error type. The wire packages (rpc and rest) translate these types
// to and from their own representations; the qdrant package glues a wire
// backend to a ready-to-use client.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    Application Layer                        │
//	│        builds vectordb values, calls qdrant.Client          │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                     vectordb.Service                        │
//	│        (operation set + protocol-neutral types)             │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	              ┌────────────┴────────────┐
//	              ▼                         ▼
//	      ┌───────────────┐         ┌───────────────┐
//	      │  rpc.Backend  │         │ rest.Backend  │
//	      │ (gRPC/proto)  │         │ (JSON/HTTP)   │
//	      └───────────────┘         └───────────────┘
//
// # Closed unions
//
// Payload values, conditions, matches, geo conditions, queries, vector
// inputs, vectors configs and batch update operations are closed unions:
// interfaces with an unexported marker method, implemented only by the types
// of this package. Switch on them exhaustively:
//
//	switch v := value.(type) {
//	case vectordb.IntegerValue:
//	case vectordb.DoubleValue:
//	...
//	}
//
// IntegerValue and DoubleValue stay distinct through every round trip:
// IntegerValue(42) never comes back as DoubleValue(42).
//
// # Filters
//
//	filter := &vectordb.Filter{
//	    Must: []vectordb.Condition{
//	        vectordb.NewMatchKeyword("status", "published"),
//	        vectordb.NewRange("year", vectordb.Range{Gte: vectordb.Ptr(2020.0)}),
//	    },
//	    MustNot: []vectordb.Condition{
//	        vectordb.NewHasID(vectordb.NewIDNum(7)),
//	    },
//	}
//
// # Multi-stage queries
//
//	req := vectordb.QueryRequest{
//	    Collection: "docs",
//	    Prefetch: []vectordb.PrefetchQuery{
//	        {Query: vectordb.NewQueryNearest(dense...), Using: vectordb.Ptr("dense"), Limit: vectordb.Ptr[uint64](100)},
//	        {Query: vectordb.NewQueryNearest(title...), Using: vectordb.Ptr("title"), Limit: vectordb.Ptr[uint64](100)},
//	    },
//	    Query: vectordb.NewQueryFusion(vectordb.RRF),
//	    Limit: vectordb.Ptr[uint64](10),
//	}
//
// # Errors
//
// Every failure is a *Error carrying a Kind. Test with errors.Is against the
// sentinels:
//
//	if errors.Is(err, vectordb.ErrCollectionNotFound) {
//	    // create it
//	}
//
// Decode failures carry the path of the offending field, e.g.
// "result[3].payload.tags[0]".
package vectordb
