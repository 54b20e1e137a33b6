package bwb

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. The typed errors below match the
// sentinel for their category.
var (
	// ErrFetchFailed matches any *FetchFailedError.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrTransportUnavailable matches any *TransportError.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrMalformedManifest matches a *MalformedXMLError for a manifest.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrMalformedDocument matches a *MalformedXMLError for a content document.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingLatestPointer is returned when a manifest root has no
	// usable _latestItem attribute. No default is ever substituted.
	ErrMissingLatestPointer = errors.New("manifest has no " + LatestItemAttr + " attribute")
)

// FetchFailedError reports a response with a status other than 200.
type FetchFailedError struct {
	URL        string
	StatusCode int
}

func (fetchErr *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch of %s failed: HTTP %d", fetchErr.URL, fetchErr.StatusCode)
}

// Is reports whether target is ErrFetchFailed.
func (fetchErr *FetchFailedError) Is(target error) bool {
	return target == ErrFetchFailed
}

// TransportError reports a connection-level failure (DNS, refusal, timeout,
// or a body that could not be read).
type TransportError struct {
	URL string
	Err error
}

func (transportErr *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", transportErr.URL, transportErr.Err)
}

func (transportErr *TransportError) Unwrap() error { return transportErr.Err }

// Is reports whether target is ErrTransportUnavailable.
func (transportErr *TransportError) Is(target error) bool {
	return target == ErrTransportUnavailable
}

// DocumentKind distinguishes the two XML documents the connector parses.
type DocumentKind string

const (
	KindManifest DocumentKind = "manifest"
	KindDocument DocumentKind = "document"
)

// MalformedXMLError reports a body that is not well-formed XML. Err carries
// the underlying parser diagnostic.
type MalformedXMLError struct {
	Kind DocumentKind
	URL  string
	Err  error
}

func (malformedErr *MalformedXMLError) Error() string {
	if malformedErr.URL == "" {
		return fmt.Sprintf("malformed %s XML: %v", malformedErr.Kind, malformedErr.Err)
	}
	return fmt.Sprintf("malformed %s XML at %s: %v", malformedErr.Kind, malformedErr.URL, malformedErr.Err)
}

func (malformedErr *MalformedXMLError) Unwrap() error { return malformedErr.Err }

// Is matches ErrMalformedManifest or ErrMalformedDocument according to Kind.
func (malformedErr *MalformedXMLError) Is(target error) bool {
	switch malformedErr.Kind {
	case KindManifest:
		return target == ErrMalformedManifest
	case KindDocument:
		return target == ErrMalformedDocument
	}
	return false
}
