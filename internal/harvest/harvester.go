// Package harvest implements the explore stage: one origin plus one region
// filter in, deduplicated destination candidates out.
package harvest

import (
	"context"
	"fmt"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/extract"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
)

// PageFetcher retrieves the explore page for a descriptor over plain HTTP.
type PageFetcher interface {
	FetchPage(ctx context.Context, d domain.SearchDescriptor) ([]byte, error)
	ExploreURL(d domain.SearchDescriptor) (string, error)
}

// Renderer drives the rendered fallback: load the page in a browser engine
// and capture the background destinations RPC it makes.
type Renderer interface {
	CaptureExploreRPC(ctx context.Context, pageURL string) ([]byte, error)
}

// CodeResolver maps destination display names to IATA codes.
type CodeResolver interface {
	Resolve(name string) (string, bool)
}

// DefaultFallbackMinResults is the yield below which the structured-payload
// strategy is considered to have failed. Chosen from observed behavior:
// a soft-throttled page yields zero cards, a genuine one rarely fewer
// than a handful.
const DefaultFallbackMinResults = 1

// Harvester runs one explore query end to end. It holds no per-query
// state; one Harvester serves concurrent callers as long as its Renderer
// is exclusive to one worker.
type Harvester struct {
	fetcher  PageFetcher
	renderer Renderer
	resolver CodeResolver
	log      *logger.Logger

	// fallbackMin is the minimum primary-strategy yield that skips the
	// rendered fallback.
	fallbackMin int
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithFallbackMinResults overrides the fallback trigger threshold.
func WithFallbackMinResults(n int) Option {
	return func(h *Harvester) {
		if n > 0 {
			h.fallbackMin = n
		}
	}
}

// NewHarvester creates a Harvester. The renderer may be nil, which
// disables the fallback strategy entirely; the resolver may not.
func NewHarvester(fetcher PageFetcher, renderer Renderer, resolver CodeResolver, log *logger.Logger, opts ...Option) *Harvester {
	if log == nil {
		log = logger.Nop()
	}
	h := &Harvester{
		fetcher:     fetcher,
		renderer:    renderer,
		resolver:    resolver,
		log:         log,
		fallbackMin: DefaultFallbackMinResults,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest fetches and extracts destination candidates for one origin and
// region. The structured-payload strategy runs first; when its yield is
// below the fallback threshold, the rendered fallback runs exactly once
// and its result replaces the primary one. An empty slice with a nil
// error is a valid outcome: the region may genuinely have no fares, and
// the retry decision belongs to the orchestrator.
func (h *Harvester) Harvest(ctx context.Context, origin string, region domain.Region) ([]domain.DestinationCandidate, error) {
	d := domain.NewExploreDescriptor(origin, region)
	log := h.log.WithStage("harvest").WithOrigin(origin)

	body, err := h.fetcher.FetchPage(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("harvest %s: %w", d.Describe(), err)
	}

	candidates, err := extract.DestinationsFromHTML(origin, region, body)
	if err != nil {
		// An undecodable page is handled the same way as an empty one:
		// the rendered fallback gets a chance at the real payload.
		log.Warn().Err(err).Msg("Structured-payload extraction failed")
		candidates = nil
	}

	if len(candidates) < h.fallbackMin && h.renderer != nil {
		candidates, err = h.renderFallback(ctx, d, log)
		if err != nil {
			return nil, fmt.Errorf("harvest %s: %w", d.Describe(), err)
		}
	}

	for i := range candidates {
		if code, ok := h.resolver.Resolve(candidates[i].Destination); ok {
			candidates[i].DestinationCode = code
		}
	}

	log.Debug().
		Str("region", string(region)).
		Int("candidates", len(candidates)).
		Msg("Harvest finished")

	return domain.DedupeCandidates(candidates), nil
}

func (h *Harvester) renderFallback(ctx context.Context, d domain.SearchDescriptor, log *logger.Logger) ([]domain.DestinationCandidate, error) {
	pageURL, err := h.fetcher.ExploreURL(d)
	if err != nil {
		return nil, err
	}

	log.Debug().Msg("Primary yield below threshold, invoking rendered fallback")

	body, err := h.renderer.CaptureExploreRPC(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return extract.DestinationsFromRPC(d.Origin, d.Region, body)
}
