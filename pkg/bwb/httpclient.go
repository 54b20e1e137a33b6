package bwb

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout bounds a single request made by the default HTTP client.
const DefaultTimeout = 30 * time.Second

// NewDefaultHTTPClient returns an *http.Client whose transport is
// instrumented with OpenTelemetry. A non-positive timeout disables the
// client-level deadline; a context deadline still applies.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
