package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	seen []*http.Request
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.seen = append(r.seen, req)
	return httptest.NewRecorder().Result(), nil
}

func TestRequestIDTransport(t *testing.T) {
	rec := &recordingTransport{}
	tr := newRequestIDTransport(rec)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/sections", nil)
	_, err := tr.RoundTrip(req)
	require.NoError(t, err)

	require.Len(t, rec.seen, 1)
	require.NotEmpty(t, rec.seen[0].Header.Get(RequestIDHeader))
	// the caller's request is left untouched
	require.Empty(t, req.Header.Get(RequestIDHeader))
}

func TestRequestIDTransport_keepsExisting(t *testing.T) {
	rec := &recordingTransport{}
	tr := newRequestIDTransport(rec)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/sections", nil)
	req.Header.Set(RequestIDHeader, "fixed")
	_, err := tr.RoundTrip(req)
	require.NoError(t, err)

	require.Equal(t, "fixed", rec.seen[0].Header.Get(RequestIDHeader))
}

func TestRequestIDTransport_uniquePerRequest(t *testing.T) {
	rec := &recordingTransport{}
	tr := newRequestIDTransport(rec)

	for range 2 {
		_, err := tr.RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
		require.NoError(t, err)
	}

	require.NotEqual(t, rec.seen[0].Header.Get(RequestIDHeader), rec.seen[1].Header.Get(RequestIDHeader))
}
