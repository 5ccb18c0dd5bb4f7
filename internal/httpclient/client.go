package httpclient

import (
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewHTTPClientWithUserAgent creates an HTTP client that sets userAgent on every
// request that does not already carry one. Shared by the park API client and the
// image downloader.
func NewHTTPClientWithUserAgent(timeout time.Duration, userAgent string) *http.Client {
	client := NewDefaultHTTPClient(timeout)
	if userAgent == "" {
		return client
	}
	client.Transport = &userAgentTransport{
		base:      http.DefaultTransport,
		userAgent: userAgent,
	}
	return client
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
