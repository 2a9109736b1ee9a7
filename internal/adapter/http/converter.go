package http

import (
	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
)

// ToRegion converts a validated region name to its domain value.
// Validation has already rejected unknown names; an empty name maps to
// RegionNone (anywhere).
func ToRegion(name string) domain.Region {
	region, _ := domain.ParseRegion(name)
	return region
}

// ToCandidate builds the expansion input from a validated expand request.
func ToCandidate(r *ExpandRequest) domain.DestinationCandidate {
	return domain.DestinationCandidate{
		Origin:          r.Origin,
		Destination:     r.Destination,
		DestinationCode: r.Destination,
		MinPrice:        r.ReferencePrice,
		Currency:        "USD",
		TripStart:       r.ReferenceStart,
		TripEnd:         r.ReferenceEnd,
	}
}

// ToRunRequest converts a validated run request to the use case input.
func ToRunRequest(r *RunRequest) usecase.RunRequest {
	return usecase.RunRequest{
		Origins:   r.Origins,
		Region:    ToRegion(r.Region),
		Threshold: r.Threshold,
		TopK:      r.TopK,
	}
}
