package domain

// PriceCalendarPoint is one observed (outbound date, return date, price)
// combination for a fixed route. Points are uniquely identified by the
// date pair; the price is an integer in minor currency units.
type PriceCalendarPoint struct {
	// OutboundDate is the departure date (YYYY-MM-DD).
	OutboundDate string `json:"outbound_date"`

	// ReturnDate is the return date (YYYY-MM-DD).
	ReturnDate string `json:"return_date"`

	// Price is the round-trip price in minor currency units.
	Price int `json:"price"`
}

// key identifies a point within a merge.
func (p PriceCalendarPoint) key() string {
	return p.OutboundDate + "_" + p.ReturnDate
}

// MergeCalendarPoints combines point sets from overlapping sub-window
// requests into one set, unique by (outbound, return). When the same date
// pair appears more than once the first-seen price wins; sub-windows are
// built disjoint, so collisions only happen if the remote pads its ranges.
// Merging the same set twice yields the same result as once.
func MergeCalendarPoints(sets ...[]PriceCalendarPoint) []PriceCalendarPoint {
	seen := make(map[string]struct{})
	var merged []PriceCalendarPoint

	for _, set := range sets {
		for _, p := range set {
			k := p.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// WithinBand reports whether price falls within the symmetric band
// |price - reference| <= threshold * reference.
func WithinBand(price, reference int, threshold float64) bool {
	diff := float64(price - reference)
	if diff < 0 {
		diff = -diff
	}
	return diff <= threshold*float64(reference)
}

// SimilarPricedSubset selects the points whose price falls within the
// threshold band of the reference price. The result is always re-derivable
// from the full point set; no filter decision is stored separately.
func SimilarPricedSubset(points []PriceCalendarPoint, reference int, threshold float64) []PriceCalendarPoint {
	subset := make([]PriceCalendarPoint, 0, len(points))
	for _, p := range points {
		if WithinBand(p.Price, reference, threshold) {
			subset = append(subset, p)
		}
	}
	return subset
}

// ExpansionResult is the outcome of expanding one candidate across the
// rolling booking horizon.
type ExpansionResult struct {
	// Origin and Destination are IATA codes of the expanded route.
	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// ReferencePrice is the harvested price the expansion compares against,
	// with ReferenceStart/ReferenceEnd its trip window.
	ReferencePrice int    `json:"reference_price"`
	ReferenceStart string `json:"reference_start"`
	ReferenceEnd   string `json:"reference_end"`

	// Threshold is the fraction used for the similar-priced band.
	Threshold float64 `json:"threshold"`

	// Points is the full merged set of observed date combinations.
	Points []PriceCalendarPoint `json:"points"`

	// SimilarPriced is the subset of Points within the threshold band of
	// ReferencePrice. Always a subset of Points.
	SimilarPriced []PriceCalendarPoint `json:"similar_priced"`
}

// NewExpansionResult assembles a result, deriving the similar-priced
// subset from the merged point set.
func NewExpansionResult(origin, destination string, refPrice int, refStart, refEnd string, threshold float64, points []PriceCalendarPoint) *ExpansionResult {
	return &ExpansionResult{
		Origin:         origin,
		Destination:    destination,
		ReferencePrice: refPrice,
		ReferenceStart: refStart,
		ReferenceEnd:   refEnd,
		Threshold:      threshold,
		Points:         points,
		SimilarPriced:  SimilarPricedSubset(points, refPrice, threshold),
	}
}
