// Package expand implements calendar expansion: one harvested candidate in,
// every priced (outbound, return) date combination across the rolling
// booking horizon out.
package expand

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/extract"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/timeutil"
)

// Jitter bounds for sub-window release. Each request after the first waits
// an independent random delay so the four calls never land as one burst.
const (
	DefaultJitterMin = 500 * time.Millisecond
	DefaultJitterMax = 2 * time.Second
)

// WindowFetcher retrieves one raw calendar-window body for a route.
type WindowFetcher interface {
	FetchWindow(ctx context.Context, origin, destination, outboundDate, returnDate string, window timeutil.DateWindow) ([]byte, error)
}

// Expander fans one candidate out into parallel sub-window requests and
// merges the results. It holds no per-call state and is safe for
// concurrent use.
type Expander struct {
	fetcher WindowFetcher
	clock   timeutil.Clock
	sleeper timeutil.Sleeper
	log     *logger.Logger

	jitterMin time.Duration
	jitterMax time.Duration
}

// Option configures an Expander.
type Option func(*Expander)

// WithJitter overrides the sub-window release jitter bounds.
func WithJitter(min, max time.Duration) Option {
	return func(e *Expander) {
		if min > 0 && max > min {
			e.jitterMin = min
			e.jitterMax = max
		}
	}
}

// NewExpander creates an Expander. Clock and sleeper default to the real
// implementations when nil.
func NewExpander(fetcher WindowFetcher, clock timeutil.Clock, sleeper timeutil.Sleeper, log *logger.Logger, opts ...Option) *Expander {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if sleeper == nil {
		sleeper = timeutil.NewRealSleeper()
	}
	if log == nil {
		log = logger.Nop()
	}
	e := &Expander{
		fetcher:   fetcher,
		clock:     clock,
		sleeper:   sleeper,
		log:       log,
		jitterMin: DefaultJitterMin,
		jitterMax: DefaultJitterMax,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// windowResult carries one sub-window's extraction back to the gather.
type windowResult struct {
	idx    int
	points []domain.PriceCalendarPoint
	err    error
}

// Expand fetches all sub-windows of the booking horizon for one candidate
// and merges them into an ExpansionResult. The horizon is anchored at the
// current date, not at the candidate's reference window. A sub-window that
// returns zero points is valid (no published fares that far out); a
// sub-window that fails transport-level fails the whole expansion, and the
// retry decision belongs to the caller.
func (e *Expander) Expand(ctx context.Context, c domain.DestinationCandidate, threshold float64) (*domain.ExpansionResult, error) {
	if !c.Expandable() {
		return nil, fmt.Errorf("candidate %s is not expandable: %w", c.Destination, domain.ErrInvalidDescriptor)
	}

	windows := timeutil.HorizonWindows(e.clock.Now())
	log := e.log.WithStage("expand").WithOrigin(c.Origin)

	resultsChan := make(chan windowResult, len(windows))
	var wg sync.WaitGroup

	for i, w := range windows {
		wg.Add(1)
		go func(idx int, window timeutil.DateWindow) {
			defer wg.Done()
			e.fetchWindow(ctx, idx, c, window, resultsChan)
		}(i, w)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	sets := make([][]domain.PriceCalendarPoint, len(windows))
	var firstErr error
	for res := range resultsChan {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		sets[res.idx] = res.points
	}
	if firstErr != nil {
		return nil, fmt.Errorf("expand %s->%s: %w", c.Origin, c.DestinationCode, firstErr)
	}

	merged := domain.MergeCalendarPoints(sets...)
	result := domain.NewExpansionResult(c.Origin, c.DestinationCode, c.MinPrice, c.TripStart, c.TripEnd, threshold, merged)

	log.Debug().
		Str("destination", c.DestinationCode).
		Int("points", len(result.Points)).
		Int("similar_priced", len(result.SimilarPriced)).
		Msg("Expansion finished")

	return result, nil
}

// fetchWindow fetches and extracts one sub-window, with panic recovery so
// a parser blowup in one window cannot take down its siblings.
func (e *Expander) fetchWindow(ctx context.Context, idx int, c domain.DestinationCandidate, window timeutil.DateWindow, results chan<- windowResult) {
	defer func() {
		if r := recover(); r != nil {
			results <- windowResult{idx: idx, err: fmt.Errorf("window %d panic: %v", idx, r)}
		}
	}()

	// The first window goes out immediately; the rest wait out an
	// independent jitter to avoid a synchronized burst signature.
	if idx > 0 {
		jitter := e.jitterMin + time.Duration(rand.Int63n(int64(e.jitterMax-e.jitterMin)))
		if err := e.sleeper.Sleep(ctx, jitter); err != nil {
			results <- windowResult{idx: idx, err: err}
			return
		}
	}

	body, err := e.fetcher.FetchWindow(ctx, c.Origin, c.DestinationCode, c.TripStart, c.TripEnd, window)
	if err != nil {
		results <- windowResult{idx: idx, err: err}
		return
	}

	points, err := extract.CalendarPoints(body)
	if err != nil {
		results <- windowResult{idx: idx, err: err}
		return
	}

	results <- windowResult{idx: idx, points: points}
}
