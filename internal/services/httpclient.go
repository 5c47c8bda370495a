package services

import (
	"net/http"
	"strings"
	"time"
)

// NewHTTPClient returns the outbound client shared by provider packages. A
// non-empty userAgent is stamped on every request that lacks one.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var transport http.RoundTripper = http.DefaultTransport
	if ua := strings.TrimSpace(userAgent); ua != "" {
		transport = userAgentTransport{base: transport, userAgent: ua}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
