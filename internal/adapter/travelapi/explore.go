// Package travelapi holds the HTTP clients for the two remote surfaces the
// engine talks to directly: the explore page and the calendar graph
// endpoint. Both clients return raw bodies; decoding lives in the extract
// package so the heuristics can change without touching transport code.
package travelapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/faredrop/fare-discovery-engine/internal/codec"
	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
)

// DefaultBaseURL is the production origin for both remote surfaces.
const DefaultBaseURL = "https://www.google.com"

const exploreEndpoint = "explore"

// maxBodyBytes caps response reads; explore pages run a few hundred KB and
// anything past this is padding we never walk.
const maxBodyBytes = 4 << 20

// ExploreClient fetches the explore page for one search descriptor.
type ExploreClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// defaultFetchTimeout bounds one remote fetch when no override is given.
const defaultFetchTimeout = 30 * time.Second

// ClientOption adjusts the underlying HTTP client of a travelapi client.
type ClientOption func(*http.Client)

// WithFetchTimeout overrides the per-request timeout.
func WithFetchTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// NewExploreClient creates an ExploreClient against the production origin.
func NewExploreClient(log *logger.Logger, opts ...ClientOption) *ExploreClient {
	return NewExploreClientWithBase(DefaultBaseURL, log, opts...)
}

// NewExploreClientWithBase creates an ExploreClient against a custom origin.
// Used by tests to point at a local server.
func NewExploreClientWithBase(baseURL string, log *logger.Logger, opts ...ClientOption) *ExploreClient {
	if log == nil {
		log = logger.Nop()
	}
	c := &ExploreClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c.httpClient)
	}
	return c
}

// ExploreURL builds the navigable page URL for a descriptor. The descriptor
// itself travels in the opaque tfs parameter; locale, market and currency
// are plain query parameters.
func (c *ExploreClient) ExploreURL(d domain.SearchDescriptor) (string, error) {
	tfs, err := codec.Encode(d)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("tfs", tfs)
	q.Set("hl", d.Locale)
	q.Set("gl", d.Market)
	q.Set("tfu", "GgA")
	q.Set("curr", "USD")
	return c.baseURL + "/travel/explore?" + q.Encode(), nil
}

// FetchPage retrieves the explore page body for a descriptor. Non-2xx
// responses and connection failures surface as TransportError; the body is
// returned undecoded.
func (c *ExploreClient) FetchPage(ctx context.Context, d domain.SearchDescriptor) ([]byte, error) {
	pageURL, err := c.ExploreURL(d)
	if err != nil {
		return nil, fmt.Errorf("building explore url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building explore request: %w", err)
	}
	setBrowserHeaders(req)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(exploreEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewStatusError(exploreEndpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewTransportError(exploreEndpoint, err)
	}

	c.log.Debug().
		Str("origin", d.Origin).
		Str("region", string(d.Region)).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("Explore page fetched")

	return body, nil
}
