package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
)

// ClassifyResponse maps a non-2xx HTTP response onto the error taxonomy.
//
// A 404 is split into collection or point not-found by searching the
// message; when neither word appears the error keeps the generic StatusCode
// kind.
func ClassifyResponse(statusCode int, body []byte) *vectordb.Error {
	msg := errorMessage(body)
	var kind vectordb.Kind
	switch {
	case statusCode == http.StatusBadRequest:
		kind = vectordb.KindInvalidArgument
	case statusCode == http.StatusUnauthorized:
		kind = vectordb.KindUnauthenticated
	case statusCode == http.StatusForbidden:
		kind = vectordb.KindPermissionDenied
	case statusCode == http.StatusNotFound:
		kind = vectordb.NotFoundKind(msg)
		if kind == vectordb.KindUnknown {
			kind = vectordb.KindStatusCode
		}
	case statusCode >= 500 && statusCode <= 599:
		kind = vectordb.KindInternalError
	default:
		kind = vectordb.KindStatusCode
	}
	return &vectordb.Error{Kind: kind, Message: msg, StatusCode: statusCode}
}

// errorMessage prefers status.error, then message, then the raw body.
func errorMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	doc, err := parse(root, body)
	if err != nil {
		return raw
	}
	o, ok := doc.(object)
	if !ok {
		return raw
	}
	if st, ok := o["status"].(object); ok {
		if msg, ok := st["error"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := o["message"].(string); ok && msg != "" {
		return msg
	}
	return raw
}

// ClassifyTransportError converts a failure to complete the round trip.
// Errors that already belong to the taxonomy pass through unchanged.
func ClassifyTransportError(err error) error {
	if err == nil {
		return nil
	}

	var typed *vectordb.Error
	if errors.As(err, &typed) {
		return err
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &vectordb.Error{Kind: vectordb.KindTimeout, Message: err.Error(), Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &vectordb.Error{Kind: vectordb.KindTimeout, Message: err.Error(), Err: err}
	case errors.Is(err, context.Canceled):
		return &vectordb.Error{Kind: vectordb.KindUnknown, Message: err.Error(), Err: err}
	default:
		return &vectordb.Error{Kind: vectordb.KindConnectionFailed, Message: err.Error(), Err: err}
	}
}
