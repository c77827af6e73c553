package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Response is a completed HTTP exchange. Status codes are not interpreted
// by the transport; the backend classifies anything outside 2xx.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs one HTTP round trip against a Qdrant REST endpoint.
// path is already escaped and rooted at the server's base URL; body is nil
// for requests without one.
//
//go:generate mockgen -source=transport.go -destination=mock_transport_test.go -package=rest
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error)
	Close() error
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	carrier    func(context.Context) map[string]string
}

// TransportOption customises an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithTraceCarrier sets headers from carrier(ctx) on every request, e.g.
// (*tracer.Tracer).GetCarrier. otelhttp still injects its own span's
// context on top when a global propagator is installed.
func WithTraceCarrier(carrier func(context.Context) map[string]string) TransportOption {
	return func(t *HTTPTransport) { t.carrier = carrier }
}

// NewHTTPTransport builds a transport for baseURL, e.g. "https://db.example.com:6333".
// A zero timeout disables the client-side deadline; per-call contexts
// still apply. Outgoing requests are traced with OpenTelemetry.
func NewHTTPTransport(baseURL, apiKey string, timeout time.Duration, opts ...TransportOption) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("rest: invalid base url %q", baseURL)
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(baseURL, "/")

	t := &HTTPTransport{
		baseURL: base,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// BaseURL returns the server root every path is resolved against.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

func (t *HTTPTransport) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	target := t.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.apiKey != "" {
		req.Header.Set("api-key", t.apiKey)
	}
	if t.carrier != nil {
		for k, v := range t.carrier(ctx) {
			req.Header.Set(k, v)
		}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}
