package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// BatchStats aggregates one mini batch. Inter-batch degradation in elapsed
// time or success rate is the primary throttling signal, so every batch is
// measured and logged rather than silently absorbed.
type BatchStats struct {
	// Origins is the number of origins in the batch.
	Origins int `json:"origins"`

	// Units counts all work units the batch ran, both stages.
	Units int `json:"units"`

	// SucceededData, SucceededEmpty, and Failed partition the units by
	// terminal state.
	SucceededData  int `json:"succeeded_with_data"`
	SucceededEmpty int `json:"succeeded_empty"`
	Failed         int `json:"failed"`

	// Elapsed is the batch wall time, both stages included.
	Elapsed time.Duration `json:"elapsed"`
}

// Record tallies a finished unit.
func (s *BatchStats) Record(u *domain.WorkUnit) {
	s.Units++
	switch u.State {
	case domain.UnitSucceededWithData:
		s.SucceededData++
	case domain.UnitSucceededEmpty:
		s.SucceededEmpty++
	default:
		s.Failed++
	}
}

// SuccessRate is the fraction of units that did not fail. Empty results
// count as success; they are a legitimate outcome after the retry.
func (s *BatchStats) SuccessRate() float64 {
	if s.Units == 0 {
		return 1
	}
	return float64(s.Units-s.Failed) / float64(s.Units)
}

// RunSummary is the aggregate a run always reports, even when a subset of
// units failed. Counters are atomic and slices mutex-guarded so recording is
// safe from any goroutine; the exported fields are filled by Finalize once
// the run's last batch has completed.
type RunSummary struct {
	// Origins and Region echo the request.
	Origins []string      `json:"origins"`
	Region  domain.Region `json:"region,omitempty"`

	// Candidates is the total number of harvested candidates before top-K
	// selection.
	Candidates int64 `json:"candidates"`

	// SucceededData, SucceededEmpty, and Failed count terminal unit states
	// across the whole run.
	SucceededData  int64 `json:"succeeded_with_data"`
	SucceededEmpty int64 `json:"succeeded_empty"`
	Failed         int64 `json:"failed"`

	// Batches holds per-batch stats in completion order.
	Batches []BatchStats `json:"batches"`

	// Results holds the expansion results produced by the run.
	Results []*domain.ExpansionResult `json:"results"`

	// Elapsed is the total run wall time.
	Elapsed time.Duration `json:"elapsed"`

	mu             sync.Mutex
	candidates     atomic.Int64
	succeededData  atomic.Int64
	succeededEmpty atomic.Int64
	failed         atomic.Int64
}

// NewRunSummary creates an empty summary for the request.
func NewRunSummary(origins []string, region domain.Region) *RunSummary {
	return &RunSummary{Origins: origins, Region: region}
}

// RecordUnit tallies a finished unit into the run counters.
func (s *RunSummary) RecordUnit(u *domain.WorkUnit) {
	switch u.State {
	case domain.UnitSucceededWithData:
		s.succeededData.Add(1)
	case domain.UnitSucceededEmpty:
		s.succeededEmpty.Add(1)
	default:
		s.failed.Add(1)
	}
}

// CountCandidates adds harvested candidates to the run total.
func (s *RunSummary) CountCandidates(n int) {
	s.candidates.Add(int64(n))
}

// Finalize copies the atomic counters into the exported fields. Called once
// after the last batch; the summary is read-only afterwards.
func (s *RunSummary) Finalize(elapsed time.Duration) {
	s.Candidates = s.candidates.Load()
	s.SucceededData = s.succeededData.Load()
	s.SucceededEmpty = s.succeededEmpty.Load()
	s.Failed = s.failed.Load()
	s.Elapsed = elapsed
}

// AddBatch appends one batch's stats.
func (s *RunSummary) AddBatch(stats BatchStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Batches = append(s.Batches, stats)
}

// AddResult appends one expansion result.
func (s *RunSummary) AddResult(result *domain.ExpansionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = append(s.Results, result)
}

// UnitsTotal is the number of terminal units the run recorded.
func (s *RunSummary) UnitsTotal() int64 {
	return s.SucceededData + s.SucceededEmpty + s.Failed
}
