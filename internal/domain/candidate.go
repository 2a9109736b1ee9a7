package domain

import "sort"

// DestinationCandidate is one destination discovered by a harvest query,
// with the minimum round-trip price observed for it. Candidates are
// transient: they live from one harvest response until the orchestrator
// selects its top picks and hands them to expansion.
type DestinationCandidate struct {
	// Origin is the IATA code of the searched origin airport.
	Origin string `json:"origin"`

	// Destination is the display name of the destination city.
	Destination string `json:"destination"`

	// DestinationCode is the resolved IATA code for the destination, or
	// empty when the name could not be resolved. Candidates without a code
	// pass through harvesting but are excluded from expansion.
	DestinationCode string `json:"destination_code,omitempty"`

	// MinPrice is the cheapest observed round-trip price in minor units
	// of Currency.
	MinPrice int `json:"min_price"`

	// Currency is the ISO 4217 currency code of MinPrice.
	Currency string `json:"currency"`

	// TripStart and TripEnd bound the sampled trip window (YYYY-MM-DD).
	// Either may be empty when the response omitted them.
	TripStart string `json:"trip_start,omitempty"`
	TripEnd   string `json:"trip_end,omitempty"`

	// Duration is the flight-duration text as shown by the remote
	// service, e.g. "10 hr 45 min". Optional.
	Duration string `json:"duration,omitempty"`

	// SearchRegion records which region filter produced the candidate.
	SearchRegion Region `json:"search_region,omitempty"`
}

// Expandable reports whether the candidate carries everything calendar
// expansion needs: a resolved code and a reference date window.
func (c DestinationCandidate) Expandable() bool {
	return c.DestinationCode != "" && c.TripStart != "" && c.TripEnd != ""
}

// DedupeCandidates collapses candidates that share a destination name,
// keeping the cheapest price for each. First-appearance order is preserved,
// so deduplicating twice yields the same set as once.
func DedupeCandidates(candidates []DestinationCandidate) []DestinationCandidate {
	byName := make(map[string]int, len(candidates))
	result := make([]DestinationCandidate, 0, len(candidates))

	for _, c := range candidates {
		idx, seen := byName[c.Destination]
		if !seen {
			byName[c.Destination] = len(result)
			result = append(result, c)
			continue
		}
		if c.MinPrice < result[idx].MinPrice {
			// Keep the slot (first-appearance order) but take the
			// cheaper observation wholesale, dates included.
			result[idx] = c
		}
	}
	return result
}

// CheapestCandidates returns up to k candidates sorted by ascending price.
// The input slice is not modified.
func CheapestCandidates(candidates []DestinationCandidate, k int) []DestinationCandidate {
	if k <= 0 {
		return nil
	}
	sorted := make([]DestinationCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPrice < sorted[j].MinPrice
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
