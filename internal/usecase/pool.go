package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// unitOutcome holds the result of one work unit.
type unitOutcome struct {
	unit       *domain.WorkUnit
	candidates []domain.DestinationCandidate
	expansion  *domain.ExpansionResult
	err        error
}

// empty reports whether the attempt succeeded but produced nothing, the
// signature the retry policy watches for.
func (o unitOutcome) empty() bool {
	if o.unit.Kind == domain.KindExpand {
		return o.expansion == nil || len(o.expansion.Points) == 0
	}
	return len(o.candidates) == 0
}

// runPool processes units on a bounded worker pool. Worker starts are
// staggered so the pool never opens with a simultaneous burst; workers whose
// stagger sleep is cut short by cancellation still drain the queue, letting
// each unit fail fast on its own context check.
func (uc *discoveryUseCase) runPool(ctx context.Context, workers int, units []*domain.WorkUnit, threshold float64) []unitOutcome {
	if len(units) == 0 {
		return nil
	}
	if workers > len(units) {
		workers = len(units)
	}

	jobs := make(chan *domain.WorkUnit)
	results := make(chan unitOutcome, len(units))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if idx > 0 && uc.cfg.WorkerStagger > 0 {
				_ = uc.sleeper.Sleep(ctx, time.Duration(idx)*uc.cfg.WorkerStagger)
			}
			for u := range jobs {
				results <- uc.runUnitSafe(ctx, u, threshold)
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for _, u := range units {
		jobs <- u
	}
	close(jobs)

	outcomes := make([]unitOutcome, 0, len(units))
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// runUnitSafe adds panic recovery so one unit cannot take down its worker.
func (uc *discoveryUseCase) runUnitSafe(ctx context.Context, u *domain.WorkUnit, threshold float64) (out unitOutcome) {
	defer func() {
		if r := recover(); r != nil {
			u.ResolveFailed()
			out = unitOutcome{unit: u, err: fmt.Errorf("unit panic: %v", r)}
			uc.log.Error().
				Str("unit", u.ID).
				Interface("panic", r).
				Msg("Work unit panicked")
		}
	}()
	return uc.runUnit(ctx, u, threshold)
}
