package domain

import "fmt"

// WorkUnitState tracks a unit through the orchestrator's state machine:
//
//	pending -> in-flight -> succeeded-with-data
//	                     -> succeeded-empty-retrying -> in-flight -> ...
//	                     -> succeeded-empty-final
//	                     -> failed
type WorkUnitState string

// Work unit states.
const (
	UnitPending            WorkUnitState = "pending"
	UnitInFlight           WorkUnitState = "in-flight"
	UnitSucceededWithData  WorkUnitState = "succeeded-with-data"
	UnitSucceededRetrying  WorkUnitState = "succeeded-empty-retrying"
	UnitSucceededEmpty     WorkUnitState = "succeeded-empty-final"
	UnitFailed             WorkUnitState = "failed"
)

// Terminal reports whether the state is final.
func (s WorkUnitState) Terminal() bool {
	switch s {
	case UnitSucceededWithData, UnitSucceededEmpty, UnitFailed:
		return true
	default:
		return false
	}
}

// WorkKind distinguishes the two stages of a discovery run.
type WorkKind string

// Work kinds.
const (
	KindHarvest WorkKind = "harvest"
	KindExpand  WorkKind = "expand"
)

// MaxUnitAttempts bounds total tries per unit: the initial attempt plus
// exactly one delayed retry on an empty result.
const MaxUnitAttempts = 2

// WorkUnit is one schedulable piece of a discovery run: either a
// (origin, region) harvest or the expansion of one candidate.
type WorkUnit struct {
	// ID identifies the unit in logs and summaries.
	ID string

	// Kind selects the stage the unit belongs to.
	Kind WorkKind

	// Origin is the origin airport (both kinds).
	Origin string

	// Region is the region filter (harvest units).
	Region Region

	// Candidate is the candidate under expansion (expand units).
	Candidate *DestinationCandidate

	// Attempts counts tries so far, bounded by MaxUnitAttempts.
	Attempts int

	// State is the unit's current position in the state machine.
	State WorkUnitState
}

// NewHarvestUnit creates a pending harvest unit.
func NewHarvestUnit(id, origin string, region Region) *WorkUnit {
	return &WorkUnit{ID: id, Kind: KindHarvest, Origin: origin, Region: region, State: UnitPending}
}

// NewExpandUnit creates a pending expansion unit for a candidate.
func NewExpandUnit(id string, candidate DestinationCandidate) *WorkUnit {
	c := candidate
	return &WorkUnit{ID: id, Kind: KindExpand, Origin: candidate.Origin, Candidate: &c, State: UnitPending}
}

// Describe renders the unit's subject for logging.
func (u *WorkUnit) Describe() string {
	if u.Kind == KindExpand && u.Candidate != nil {
		return fmt.Sprintf("%s->%s", u.Origin, u.Candidate.DestinationCode)
	}
	if u.Region != RegionNone {
		return fmt.Sprintf("%s->%s", u.Origin, u.Region)
	}
	return u.Origin + "->anywhere"
}

// Begin marks the start of an attempt.
func (u *WorkUnit) Begin() {
	u.Attempts++
	u.State = UnitInFlight
}

// CanRetryEmpty reports whether an empty result may still be retried.
func (u *WorkUnit) CanRetryEmpty() bool {
	return u.Attempts < MaxUnitAttempts
}

// ResolveEmpty transitions the unit after an empty attempt: retrying when
// an attempt remains, final-empty otherwise.
func (u *WorkUnit) ResolveEmpty() {
	if u.CanRetryEmpty() {
		u.State = UnitSucceededRetrying
		return
	}
	u.State = UnitSucceededEmpty
}

// ResolveData marks the unit succeeded with data.
func (u *WorkUnit) ResolveData() {
	u.State = UnitSucceededWithData
}

// ResolveFailed marks the unit failed (transport or parse error, or a
// batch-deadline abort). Failures are terminal for the unit only, never
// for the batch.
func (u *WorkUnit) ResolveFailed() {
	u.State = UnitFailed
}
