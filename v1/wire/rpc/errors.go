package rpc

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Classify maps a gRPC status code and its message onto the error taxonomy.
//
// NotFound is split into collection or point not-found by searching the
// message; when neither word appears the kind is Unknown.
func Classify(code codes.Code, message string) *vectordb.Error {
	var kind vectordb.Kind
	switch code {
	case codes.InvalidArgument:
		kind = vectordb.KindInvalidArgument
	case codes.NotFound:
		kind = vectordb.NotFoundKind(message)
	case codes.AlreadyExists:
		kind = vectordb.KindCollectionAlreadyExists
	case codes.DeadlineExceeded:
		kind = vectordb.KindTimeout
	case codes.Unavailable:
		kind = vectordb.KindUnavailable
	case codes.Unauthenticated:
		kind = vectordb.KindUnauthenticated
	case codes.PermissionDenied:
		kind = vectordb.KindPermissionDenied
	case codes.Internal:
		kind = vectordb.KindInternalError
	default:
		kind = vectordb.KindUnknown
	}
	return &vectordb.Error{Kind: kind, Message: message, StatusCode: int(code)}
}

// ClassifyError converts an error returned by a generated client call.
// Errors that already belong to the taxonomy pass through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var typed *vectordb.Error
	if errors.As(err, &typed) {
		return err
	}

	if st, ok := status.FromError(err); ok {
		e := Classify(st.Code(), st.Message())
		e.Err = err
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &vectordb.Error{Kind: vectordb.KindTimeout, Message: err.Error(), Err: err}
	case errors.Is(err, context.Canceled):
		return &vectordb.Error{Kind: vectordb.KindUnknown, Message: err.Error(), Err: err}
	default:
		return &vectordb.Error{Kind: vectordb.KindConnectionFailed, Message: err.Error(), Err: err}
	}
}
