package vectordb

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure produced by this library.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionFailed
	KindCollectionNotFound
	KindPointNotFound
	KindCollectionAlreadyExists
	KindInvalidArgument
	KindUnexpectedResponse
	KindTimeout
	KindUnavailable
	KindUnauthenticated
	KindPermissionDenied
	KindInternalError
	KindTLSRequiredForRemoteHost

	// KindTypeMismatch is raised by a decoder when no variant of a union
	// matches the wire shape it was given.
	KindTypeMismatch
	// KindDataCorrupted is raised when a wire value is structurally valid
	// but semantically unusable (overflow, unknown enum, missing field).
	KindDataCorrupted
	// KindStatusCode is a non-2xx HTTP response outside the mapped codes.
	KindStatusCode
)

var kindNames = map[Kind]string{
	KindUnknown:                  "Unknown",
	KindConnectionFailed:         "ConnectionFailed",
	KindCollectionNotFound:       "CollectionNotFound",
	KindPointNotFound:            "PointNotFound",
	KindCollectionAlreadyExists:  "CollectionAlreadyExists",
	KindInvalidArgument:          "InvalidArgument",
	KindUnexpectedResponse:       "UnexpectedResponse",
	KindTimeout:                  "Timeout",
	KindUnavailable:              "Unavailable",
	KindUnauthenticated:          "Unauthenticated",
	KindPermissionDenied:         "PermissionDenied",
	KindInternalError:            "InternalError",
	KindTLSRequiredForRemoteHost: "TlsRequiredForRemoteHost",
	KindTypeMismatch:             "TypeMismatch",
	KindDataCorrupted:            "DataCorrupted",
	KindStatusCode:               "StatusCode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type surfaced by codecs, classifiers and the client.
//
// Use errors.Is against the exported sentinels to test for a kind:
//
//	if errors.Is(err, vectordb.ErrCollectionNotFound) { ... }
type Error struct {
	Kind Kind

	// Message is the server-provided or codec-provided description.
	Message string

	// StatusCode holds the HTTP status or gRPC code that produced the error, if any.
	StatusCode int

	// Path locates a codec failure inside the value being decoded,
	// e.g. "filter.must[2].match".
	Path string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	switch e.Kind {
	case KindConnectionFailed:
		return "Connection failed: " + msg
	case KindCollectionNotFound:
		return "Collection not found: " + msg
	case KindPointNotFound:
		return "Point not found: " + msg
	case KindCollectionAlreadyExists:
		return "Collection already exists: " + msg
	case KindInvalidArgument:
		return "Invalid argument: " + msg
	case KindUnexpectedResponse:
		return "Unexpected response: " + msg
	case KindTimeout:
		return "Request timed out: " + msg
	case KindUnavailable:
		return "Service unavailable: " + msg
	case KindUnauthenticated:
		return "Unauthenticated: " + msg
	case KindPermissionDenied:
		return "Permission denied: " + msg
	case KindInternalError:
		return "Internal server error: " + msg
	case KindTLSRequiredForRemoteHost:
		return fmt.Sprintf("TLS is required for remote host '%s'. Use UseTLS: true or connect to localhost for development.", msg)
	case KindTypeMismatch:
		return fmt.Sprintf("Type mismatch at %s: %s", e.pathOrRoot(), msg)
	case KindDataCorrupted:
		return fmt.Sprintf("Data corrupted at %s: %s", e.pathOrRoot(), msg)
	case KindStatusCode:
		return fmt.Sprintf("Unexpected status code %d: %s", e.StatusCode, msg)
	default:
		return "Unknown error: " + msg
	}
}

func (e *Error) pathOrRoot() string {
	if e.Path == "" {
		return "$"
	}
	return e.Path
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message != "" || t.Err != nil || t.StatusCode != 0 || t.Path != "" {
		return t == e
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnknown                  = &Error{Kind: KindUnknown}
	ErrConnectionFailed         = &Error{Kind: KindConnectionFailed}
	ErrCollectionNotFound       = &Error{Kind: KindCollectionNotFound}
	ErrPointNotFound            = &Error{Kind: KindPointNotFound}
	ErrCollectionAlreadyExists  = &Error{Kind: KindCollectionAlreadyExists}
	ErrInvalidArgument          = &Error{Kind: KindInvalidArgument}
	ErrUnexpectedResponse       = &Error{Kind: KindUnexpectedResponse}
	ErrTimeout                  = &Error{Kind: KindTimeout}
	ErrUnavailable              = &Error{Kind: KindUnavailable}
	ErrUnauthenticated          = &Error{Kind: KindUnauthenticated}
	ErrPermissionDenied         = &Error{Kind: KindPermissionDenied}
	ErrInternalError            = &Error{Kind: KindInternalError}
	ErrTLSRequiredForRemoteHost = &Error{Kind: KindTLSRequiredForRemoteHost}
	ErrTypeMismatch             = &Error{Kind: KindTypeMismatch}
	ErrDataCorrupted            = &Error{Kind: KindDataCorrupted}
	ErrStatusCode               = &Error{Kind: KindStatusCode}
)

// NewError builds an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// TypeMismatch builds a decode failure located at path.
func TypeMismatch(path string, format string, args ...any) *Error {
	return &Error{Kind: KindTypeMismatch, Path: path, Message: fmt.Sprintf(format, args...)}
}

// DataCorrupted builds a decode failure located at path.
func DataCorrupted(path string, format string, args ...any) *Error {
	return &Error{Kind: KindDataCorrupted, Path: path, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument builds a client-side validation failure.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// UnexpectedResponse builds an error for a response whose shape does not
// match the request that produced it.
func UnexpectedResponse(format string, args ...any) *Error {
	return &Error{Kind: KindUnexpectedResponse, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a collection or point not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound) || errors.Is(err, ErrPointNotFound)
}

// NotFoundKind disambiguates a server "not found" message.
//
// The server does not tag which resource is missing, so the message text is
// searched case-insensitively: "collection" wins over "point". When neither
// word appears the result is KindUnknown rather than a guess.
func NotFoundKind(message string) Kind {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "collection"):
		return KindCollectionNotFound
	case strings.Contains(lower, "point"):
		return KindPointNotFound
	default:
		return KindUnknown
	}
}
