package domain

import "strings"

// Region identifies a destination region for "anywhere within a region"
// searches. The remote service addresses regions by knowledge-graph entity
// IDs rather than names; the mapping below was recovered from captured
// search parameters.
type Region string

// Supported destination regions.
const (
	RegionNone           Region = ""
	RegionNorthAmerica   Region = "north_america"
	RegionCentralAmerica Region = "central_america"
	RegionSouthAmerica   Region = "south_america"
	RegionCaribbean      Region = "caribbean"
	RegionEurope         Region = "europe"
	RegionAfrica         Region = "africa"
	RegionAsia           Region = "asia"
	RegionOceania        Region = "oceania"
	RegionMiddleEast     Region = "middle_east"
)

// regionEntityIDs maps each region to its knowledge-graph entity ID.
var regionEntityIDs = map[Region]string{
	RegionNorthAmerica:   "/m/059g4",
	RegionCentralAmerica: "/m/01tzh",
	RegionSouthAmerica:   "/m/06n3y",
	RegionCaribbean:      "/m/0261m",
	RegionEurope:         "/m/02j9z",
	RegionAfrica:         "/m/0hzlz",
	RegionAsia:           "/m/0j0k",
	RegionOceania:        "/m/02wzv",
	RegionMiddleEast:     "/m/04wsz",
}

// AllRegions lists every supported region in a stable order.
var AllRegions = []Region{
	RegionNorthAmerica,
	RegionCentralAmerica,
	RegionSouthAmerica,
	RegionCaribbean,
	RegionEurope,
	RegionAfrica,
	RegionAsia,
	RegionOceania,
	RegionMiddleEast,
}

// IsValid reports whether the region is one of the supported values.
// RegionNone is valid and means "no region filter" (anywhere search).
func (r Region) IsValid() bool {
	if r == RegionNone {
		return true
	}
	_, ok := regionEntityIDs[r]
	return ok
}

// EntityID returns the knowledge-graph entity ID for the region, or an
// empty string for RegionNone.
func (r Region) EntityID() string {
	return regionEntityIDs[r]
}

// String returns the canonical lowercase region name.
func (r Region) String() string {
	return string(r)
}

// ParseRegion normalizes a human-entered region name ("Central America",
// "central-america") to its canonical Region value.
func ParseRegion(s string) (Region, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	r := Region(key)
	if r == RegionNone {
		return RegionNone, true
	}
	if _, ok := regionEntityIDs[r]; ok {
		return r, true
	}
	return RegionNone, false
}

// RegionFromEntityID resolves a knowledge-graph entity ID back to a Region.
// Used when decoding descriptors.
func RegionFromEntityID(id string) (Region, bool) {
	for r, eid := range regionEntityIDs {
		if eid == id {
			return r, true
		}
	}
	return RegionNone, false
}
