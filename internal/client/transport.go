package client

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request correlation id to the backend.
const RequestIDHeader = "X-Request-ID"

type requestIDTransport struct {
	next http.RoundTripper
}

func newRequestIDTransport(next http.RoundTripper) *requestIDTransport {
	return &requestIDTransport{next: next}
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set(RequestIDHeader, uuid.NewString())

	return t.next.RoundTrip(clone)
}
