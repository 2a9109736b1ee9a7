package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/retry"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/timeutil"
)

// Default pacing values. Tuned against observed soft-throttling behavior:
// large pauses alone were not enough, the remote accumulates pressure across
// a session, so short breathers between small groups are required as well.
const (
	DefaultHarvestWorkers  = 5
	DefaultExpandWorkers   = 8
	DefaultMajorBatchSize  = 25
	DefaultMiniBatchSize   = 5
	DefaultMajorCooldown   = 10 * time.Minute
	DefaultMiniPause       = 30 * time.Second
	DefaultWorkerStagger   = 2 * time.Second
	DefaultEmptyRetryDelay = 45 * time.Second
	DefaultBatchDeadline   = 20 * time.Minute
	DefaultThreshold       = 0.10
	DefaultTopK            = 6
	DefaultRequestsPerSec  = 2.0
)

// Harvester is the discovery stage port.
type Harvester interface {
	Harvest(ctx context.Context, origin string, region domain.Region) ([]domain.DestinationCandidate, error)
}

// Expander is the calendar-expansion stage port.
type Expander interface {
	Expand(ctx context.Context, candidate domain.DestinationCandidate, threshold float64) (*domain.ExpansionResult, error)
}

// DealStore receives run output. Optional: a nil store means results are
// returned to the caller only. Store failures are logged and never fail the
// run.
type DealStore interface {
	BeginRun(ctx context.Context, origins []string, region domain.Region) (int64, error)
	SaveExpansion(ctx context.Context, runID int64, result *domain.ExpansionResult) error
	CompleteRun(ctx context.Context, runID int64, summary *RunSummary) error
}

// DiscoveryUseCase runs the full pipeline: harvest origins in paced batches,
// pick the cheapest candidates per origin, expand them across the booking
// horizon.
type DiscoveryUseCase interface {
	Run(ctx context.Context, req RunRequest) (*RunSummary, error)
}

// Config holds the orchestrator tuning knobs. Harvest and expansion pools
// are sized independently; expansion is the more failure-sensitive stage and
// runs against a different endpoint.
type Config struct {
	HarvestWorkers int
	ExpandWorkers  int

	// MajorBatchSize origins per major batch, MiniBatchSize per mini batch
	// within it. MajorCooldown separates major batches, MiniPause separates
	// mini batches.
	MajorBatchSize int
	MiniBatchSize  int
	MajorCooldown  time.Duration
	MiniPause      time.Duration

	// WorkerStagger offsets worker start times within a pool so a mini
	// batch never opens with a synchronized burst.
	WorkerStagger time.Duration

	// EmptyRetryDelay is the cool-off before the single retry of an empty
	// result, sized to outlast the observed throttling window.
	EmptyRetryDelay time.Duration

	// BatchDeadline bounds one mini batch end to end. Units still in-flight
	// when it passes are recorded as failed.
	BatchDeadline time.Duration

	// Threshold is the default similar-priced band fraction.
	Threshold float64

	// TopK is the number of cheapest candidates expanded per origin.
	TopK int

	// RequestsPerSec caps the session-wide request release rate across both
	// stages.
	RequestsPerSec float64
}

// DefaultOrchestratorConfig returns the tuned defaults.
func DefaultOrchestratorConfig() Config {
	return Config{
		HarvestWorkers:  DefaultHarvestWorkers,
		ExpandWorkers:   DefaultExpandWorkers,
		MajorBatchSize:  DefaultMajorBatchSize,
		MiniBatchSize:   DefaultMiniBatchSize,
		MajorCooldown:   DefaultMajorCooldown,
		MiniPause:       DefaultMiniPause,
		WorkerStagger:   DefaultWorkerStagger,
		EmptyRetryDelay: DefaultEmptyRetryDelay,
		BatchDeadline:   DefaultBatchDeadline,
		Threshold:       DefaultThreshold,
		TopK:            DefaultTopK,
		RequestsPerSec:  DefaultRequestsPerSec,
	}
}

// RunRequest describes one discovery run.
type RunRequest struct {
	// Origins are the origin airports to harvest.
	Origins []string

	// Region filters harvesting; RegionNone searches anywhere.
	Region domain.Region

	// Threshold overrides the configured band fraction when > 0.
	Threshold float64

	// TopK overrides the configured per-origin expansion count when > 0.
	TopK int
}

type discoveryUseCase struct {
	harvester Harvester
	expander  Expander
	store     DealStore
	cfg       Config
	clock     timeutil.Clock
	sleeper   timeutil.Sleeper
	limiter   *rate.Limiter
	log       *logger.Logger
}

// NewDiscoveryUseCase wires the orchestrator. Store may be nil. Nil clock,
// sleeper, or logger default to the real clock, a real sleeper, and a no-op
// logger.
func NewDiscoveryUseCase(harvester Harvester, expander Expander, store DealStore, cfg Config, clock timeutil.Clock, sleeper timeutil.Sleeper, log *logger.Logger) DiscoveryUseCase {
	if cfg.HarvestWorkers <= 0 {
		cfg.HarvestWorkers = DefaultHarvestWorkers
	}
	if cfg.ExpandWorkers <= 0 {
		cfg.ExpandWorkers = DefaultExpandWorkers
	}
	if cfg.MajorBatchSize <= 0 {
		cfg.MajorBatchSize = DefaultMajorBatchSize
	}
	if cfg.MiniBatchSize <= 0 {
		cfg.MiniBatchSize = DefaultMiniBatchSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if sleeper == nil {
		sleeper = timeutil.NewRealSleeper()
	}
	if log == nil {
		log = logger.Nop()
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}

	return &discoveryUseCase{
		harvester: harvester,
		expander:  expander,
		store:     store,
		cfg:       cfg,
		clock:     clock,
		sleeper:   sleeper,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

// Run executes the request. Individual unit failures never abort the run;
// the summary reports them alongside the successes.
func (uc *discoveryUseCase) Run(ctx context.Context, req RunRequest) (*RunSummary, error) {
	if len(req.Origins) == 0 {
		return nil, fmt.Errorf("run needs at least one origin: %w", domain.ErrInvalidDescriptor)
	}

	threshold := uc.cfg.Threshold
	if req.Threshold > 0 {
		threshold = req.Threshold
	}
	topK := uc.cfg.TopK
	if req.TopK > 0 {
		topK = req.TopK
	}

	started := uc.clock.Now()
	summary := NewRunSummary(req.Origins, req.Region)

	runID := uc.beginStoredRun(ctx, req)

	majors := partition(req.Origins, uc.cfg.MajorBatchSize)
	for mi, major := range majors {
		minis := partition(major, uc.cfg.MiniBatchSize)
		for bi, mini := range minis {
			stats := uc.runMiniBatch(ctx, mini, req.Region, threshold, topK, runID, summary)
			summary.AddBatch(stats)

			uc.log.Info().
				Int("major", mi+1).
				Int("mini", bi+1).
				Int("units", stats.Units).
				Int64("elapsed_ms", stats.Elapsed.Milliseconds()).
				Float64("success_rate", stats.SuccessRate()).
				Msg("Batch complete")

			if bi < len(minis)-1 {
				uc.pause(ctx, uc.cfg.MiniPause)
			}
		}
		if mi < len(majors)-1 {
			uc.pause(ctx, uc.cfg.MajorCooldown)
		}
	}

	summary.Finalize(uc.clock.Now().Sub(started))
	uc.completeStoredRun(ctx, runID, summary)
	return summary, nil
}

// runMiniBatch harvests one mini batch of origins, then expands the cheapest
// expandable candidates per origin. Both stages run under the batch deadline.
func (uc *discoveryUseCase) runMiniBatch(ctx context.Context, origins []string, region domain.Region, threshold float64, topK int, runID int64, summary *RunSummary) BatchStats {
	batchCtx := ctx
	if uc.cfg.BatchDeadline > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, uc.cfg.BatchDeadline)
		defer cancel()
	}

	started := uc.clock.Now()

	harvestUnits := make([]*domain.WorkUnit, 0, len(origins))
	for _, origin := range origins {
		id := fmt.Sprintf("harvest-%s-%s", origin, region)
		harvestUnits = append(harvestUnits, domain.NewHarvestUnit(id, origin, region))
	}

	harvested := uc.runPool(batchCtx, uc.cfg.HarvestWorkers, harvestUnits, threshold)

	expandUnits := uc.planExpansion(harvested, topK)
	expanded := uc.runPool(batchCtx, uc.cfg.ExpandWorkers, expandUnits, threshold)

	stats := BatchStats{Origins: len(origins)}
	for _, out := range harvested {
		stats.Record(out.unit)
		summary.RecordUnit(out.unit)
		summary.CountCandidates(len(out.candidates))
	}
	for _, out := range expanded {
		stats.Record(out.unit)
		summary.RecordUnit(out.unit)
		if out.expansion != nil && len(out.expansion.Points) > 0 {
			summary.AddResult(out.expansion)
			uc.saveExpansion(ctx, runID, out.expansion)
		}
	}
	stats.Elapsed = uc.clock.Now().Sub(started)
	return stats
}

// planExpansion selects the top-K cheapest expandable candidates for each
// harvested origin and turns them into pending expansion units.
func (uc *discoveryUseCase) planExpansion(harvested []unitOutcome, topK int) []*domain.WorkUnit {
	byOrigin := make(map[string][]domain.DestinationCandidate)
	var order []string
	for _, out := range harvested {
		for _, c := range out.candidates {
			if !c.Expandable() {
				continue
			}
			if _, seen := byOrigin[c.Origin]; !seen {
				order = append(order, c.Origin)
			}
			byOrigin[c.Origin] = append(byOrigin[c.Origin], c)
		}
	}

	var units []*domain.WorkUnit
	for _, origin := range order {
		for _, c := range domain.CheapestCandidates(byOrigin[origin], topK) {
			id := fmt.Sprintf("expand-%s-%s", c.Origin, c.DestinationCode)
			units = append(units, domain.NewExpandUnit(id, c))
		}
	}
	return units
}

// runUnit drives one unit through the state machine. The retry engine
// performs the single delayed retry when an attempt comes back empty;
// transport and validation errors are not retried here.
func (uc *discoveryUseCase) runUnit(ctx context.Context, u *domain.WorkUnit, threshold float64) unitOutcome {
	cfg := retry.EmptyResultConfig.
		WithRetryIf(func(err error) bool { return errors.Is(err, domain.ErrNoResults) })
	if uc.cfg.EmptyRetryDelay > 0 {
		cfg = cfg.WithInitialDelay(uc.cfg.EmptyRetryDelay).WithMaxDelay(uc.cfg.EmptyRetryDelay)
	}

	outcome, err := retry.DoWithResult(ctx, func() (unitOutcome, error) {
		u.Begin()

		if err := uc.limiter.Wait(ctx); err != nil {
			u.ResolveFailed()
			return unitOutcome{unit: u, err: err}, retry.NewPermanent(err)
		}

		out := uc.executeUnit(ctx, u, threshold)
		if out.err != nil {
			u.ResolveFailed()
			return out, retry.NewPermanent(out.err)
		}
		if out.empty() {
			u.ResolveEmpty()
			return out, fmt.Errorf("%s: %w", u.Describe(), domain.ErrNoResults)
		}
		u.ResolveData()
		return out, nil
	}, cfg)

	if err != nil && !u.State.Terminal() {
		// The deadline fired between attempts or during the retry cool-off.
		u.ResolveFailed()
		outcome.unit = u
		outcome.err = err
	}
	if errors.Is(err, domain.ErrNoResults) {
		// Empty after the retry is a legitimate outcome, not a failure.
		outcome.err = nil
	}
	return outcome
}

// executeUnit performs one attempt of a unit's stage call.
func (uc *discoveryUseCase) executeUnit(ctx context.Context, u *domain.WorkUnit, threshold float64) unitOutcome {
	switch u.Kind {
	case domain.KindExpand:
		result, err := uc.expander.Expand(ctx, *u.Candidate, threshold)
		return unitOutcome{unit: u, expansion: result, err: err}
	default:
		candidates, err := uc.harvester.Harvest(ctx, u.Origin, u.Region)
		return unitOutcome{unit: u, candidates: candidates, err: err}
	}
}

// pause sleeps between batches. Cancellation just ends the pause early; the
// next batch then fails fast on its own context checks.
func (uc *discoveryUseCase) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if err := uc.sleeper.Sleep(ctx, d); err != nil {
		uc.log.Warn().Err(err).Msg("Pause interrupted")
	}
}

func (uc *discoveryUseCase) beginStoredRun(ctx context.Context, req RunRequest) int64 {
	if uc.store == nil {
		return 0
	}
	runID, err := uc.store.BeginRun(ctx, req.Origins, req.Region)
	if err != nil {
		uc.log.Warn().Err(err).Msg("Deal store unavailable, run proceeds unrecorded")
		return 0
	}
	return runID
}

func (uc *discoveryUseCase) saveExpansion(ctx context.Context, runID int64, result *domain.ExpansionResult) {
	if uc.store == nil || runID == 0 {
		return
	}
	if err := uc.store.SaveExpansion(ctx, runID, result); err != nil {
		uc.log.Warn().Err(err).
			Str("route", result.Origin+"->"+result.Destination).
			Msg("Failed to persist expansion")
	}
}

func (uc *discoveryUseCase) completeStoredRun(ctx context.Context, runID int64, summary *RunSummary) {
	if uc.store == nil || runID == 0 {
		return
	}
	if err := uc.store.CompleteRun(ctx, runID, summary); err != nil {
		uc.log.Warn().Err(err).Msg("Failed to record run summary")
	}
}

// partition splits items into chunks of at most size, preserving order.
func partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return [][]T{items}
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Ensure discoveryUseCase implements DiscoveryUseCase at compile time.
var _ DiscoveryUseCase = (*discoveryUseCase)(nil)
