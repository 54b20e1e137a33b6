package bwb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	// BaseURL is the repository root under which manifests are found.
	// Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request made by the default HTTP client.
	// Ignored when HTTPClient is set. Default: 30 seconds.
	Timeout time.Duration

	// HTTPClient is the transport used for requests. If nil, an
	// instrumented *http.Client with Timeout is used.
	HTTPClient HTTPClient

	// UserAgent, when non-empty, is sent as the User-Agent header.
	// Default: empty, so only the transport's default headers are sent.
	UserAgent string
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		HTTPClient: nil, // Will use NewDefaultHTTPClient.
	}
}

// Client resolves BWB identifiers and extracts outlines. Each call performs
// exactly one GET; nothing is cached or retried, and the Client holds no
// mutable state, so it may be used from several goroutines at once.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
}

// NewClient creates a new Client with the given configuration.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient(config.Timeout)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  config.UserAgent,
	}
}

// BaseURL returns the repository root the client resolves identifiers under.
func (bwbClient *Client) BaseURL() string {
	return bwbClient.baseURL
}

// ManifestLocation returns the manifest URL for identifier.
func (bwbClient *Client) ManifestLocation(identifier DocumentIdentifier) string {
	return ManifestLocation(bwbClient.baseURL, identifier)
}

// ResolveLatest fetches the manifest at manifestLocation and returns the
// location of the version its _latestItem attribute points at.
//
// Errors: *FetchFailedError for a non-200 status, *TransportError for a
// connection failure, *MalformedXMLError (ErrMalformedManifest) for a body
// that is not XML, and ErrMissingLatestPointer when the attribute is absent.
func (bwbClient *Client) ResolveLatest(ctx context.Context, manifestLocation string) (string, error) {
	body, err := bwbClient.fetch(ctx, manifestLocation)
	if err != nil {
		return "", err
	}

	latestPointer, err := ParseManifest(bytes.NewReader(body))
	if err != nil {
		return "", withLocation(err, manifestLocation)
	}

	return ContentLocation(manifestLocation, latestPointer), nil
}

// ExtractOutline fetches the content document at contentLocation and
// returns its chapter outline. See ParseOutline for the extraction rules.
//
// Errors: *FetchFailedError, *TransportError, or *MalformedXMLError
// (ErrMalformedDocument).
func (bwbClient *Client) ExtractOutline(ctx context.Context, contentLocation string) (*Outline, error) {
	body, err := bwbClient.fetch(ctx, contentLocation)
	if err != nil {
		return nil, err
	}

	outline, err := ParseOutline(bytes.NewReader(body))
	if err != nil {
		return nil, withLocation(err, contentLocation)
	}
	return outline, nil
}

// Resolve resolves identifier to its latest version below the client's base URL.
func (bwbClient *Client) Resolve(ctx context.Context, identifier DocumentIdentifier) (*Resolution, error) {
	manifestLocation := bwbClient.ManifestLocation(identifier)

	contentLocation, err := bwbClient.ResolveLatest(ctx, manifestLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", identifier, err)
	}

	return &Resolution{
		Identifier:       identifier,
		ManifestLocation: manifestLocation,
		ContentLocation:  contentLocation,
	}, nil
}

// LoadDocument resolves identifier and extracts the outline of its latest
// version. This is a convenience method combining Resolve and ExtractOutline.
func (bwbClient *Client) LoadDocument(ctx context.Context, identifier DocumentIdentifier) (*Document, error) {
	resolution, err := bwbClient.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	outline, err := bwbClient.ExtractOutline(ctx, resolution.ContentLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to extract outline for %s: %w", identifier, err)
	}

	return &Document{Resolution: *resolution, Outline: outline}, nil
}

// fetch performs a plain GET and returns the body of a 200 response.
func (bwbClient *Client) fetch(ctx context.Context, location string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &TransportError{URL: location, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if bwbClient.userAgent != "" {
		request.Header.Set("User-Agent", bwbClient.userAgent)
	}

	response, err := bwbClient.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{URL: location, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &FetchFailedError{URL: location, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{URL: location, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

// withLocation records the fetched location on a parse error.
func withLocation(err error, location string) error {
	var malformedErr *MalformedXMLError
	if errors.As(err, &malformedErr) {
		malformedErr.URL = location
	}
	return err
}
