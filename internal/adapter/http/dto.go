package http

import (
	"github.com/faredrop/fare-discovery-engine/internal/adapter/travelapi"
	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
)

// HarvestResponseDTO is the data transfer object for harvest responses.
// It matches the API output format with snake_case fields.
type HarvestResponseDTO struct {
	Origin     string         `json:"origin"`
	Region     string         `json:"region,omitempty"`
	Count      int            `json:"count"`
	Candidates []CandidateDTO `json:"candidates"`
}

// CandidateDTO represents one discovered destination.
type CandidateDTO struct {
	Destination     string `json:"destination"`
	DestinationCode string `json:"destination_code,omitempty"`
	MinPrice        int    `json:"min_price"`
	Currency        string `json:"currency"`
	TripStart       string `json:"trip_start,omitempty"`
	TripEnd         string `json:"trip_end,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Expandable      bool   `json:"expandable"`
}

// ExpansionResponseDTO is the data transfer object for expansion responses.
type ExpansionResponseDTO struct {
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	ReferencePrice int        `json:"reference_price"`
	ReferenceStart string     `json:"reference_start"`
	ReferenceEnd   string     `json:"reference_end"`
	Threshold      float64    `json:"threshold"`
	TotalPoints    int        `json:"total_points"`
	Points         []PointDTO `json:"points"`
	SimilarPriced  []PointDTO `json:"similar_priced"`
}

// PointDTO represents one (outbound, return, price) calendar observation.
// Similar-priced points additionally carry a navigable booking link.
type PointDTO struct {
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date"`
	Price        int    `json:"price"`
	BookingURL   string `json:"booking_url,omitempty"`
}

// RunResponseDTO is the data transfer object for discovery run summaries.
type RunResponseDTO struct {
	Origins        []string               `json:"origins"`
	Region         string                 `json:"region,omitempty"`
	Candidates     int64                  `json:"candidates"`
	SucceededData  int64                  `json:"succeeded_with_data"`
	SucceededEmpty int64                  `json:"succeeded_empty"`
	Failed         int64                  `json:"failed"`
	ElapsedMs      int64                  `json:"elapsed_ms"`
	Batches        []BatchDTO             `json:"batches"`
	Results        []ExpansionResponseDTO `json:"results"`
}

// BatchDTO represents the stats of one mini batch.
type BatchDTO struct {
	Origins        int     `json:"origins"`
	Units          int     `json:"units"`
	SucceededData  int     `json:"succeeded_with_data"`
	SucceededEmpty int     `json:"succeeded_empty"`
	Failed         int     `json:"failed"`
	ElapsedMs      int64   `json:"elapsed_ms"`
	SuccessRate    float64 `json:"success_rate"`
}

// ToHarvestResponseDTO converts harvested candidates to the response DTO.
func ToHarvestResponseDTO(origin string, region domain.Region, candidates []domain.DestinationCandidate) *HarvestResponseDTO {
	dto := &HarvestResponseDTO{
		Origin:     origin,
		Region:     region.String(),
		Count:      len(candidates),
		Candidates: make([]CandidateDTO, len(candidates)),
	}
	for i, c := range candidates {
		dto.Candidates[i] = CandidateDTO{
			Destination:     c.Destination,
			DestinationCode: c.DestinationCode,
			MinPrice:        c.MinPrice,
			Currency:        c.Currency,
			TripStart:       c.TripStart,
			TripEnd:         c.TripEnd,
			Duration:        c.Duration,
			Expandable:      c.Expandable(),
		}
	}
	return dto
}

// ToExpansionResponseDTO converts a domain ExpansionResult to the response DTO.
func ToExpansionResponseDTO(result *domain.ExpansionResult) ExpansionResponseDTO {
	return ExpansionResponseDTO{
		Origin:         result.Origin,
		Destination:    result.Destination,
		ReferencePrice: result.ReferencePrice,
		ReferenceStart: result.ReferenceStart,
		ReferenceEnd:   result.ReferenceEnd,
		Threshold:      result.Threshold,
		TotalPoints:    len(result.Points),
		Points:         toPointDTOs(result.Points),
		SimilarPriced:  toBookingPointDTOs(result.Origin, result.Destination, result.SimilarPriced),
	}
}

// ToRunResponseDTO converts a run summary to the response DTO.
func ToRunResponseDTO(summary *usecase.RunSummary) *RunResponseDTO {
	dto := &RunResponseDTO{
		Origins:        summary.Origins,
		Region:         summary.Region.String(),
		Candidates:     summary.Candidates,
		SucceededData:  summary.SucceededData,
		SucceededEmpty: summary.SucceededEmpty,
		Failed:         summary.Failed,
		ElapsedMs:      summary.Elapsed.Milliseconds(),
		Batches:        make([]BatchDTO, len(summary.Batches)),
		Results:        make([]ExpansionResponseDTO, len(summary.Results)),
	}
	for i := range summary.Batches {
		b := &summary.Batches[i]
		dto.Batches[i] = BatchDTO{
			Origins:        b.Origins,
			Units:          b.Units,
			SucceededData:  b.SucceededData,
			SucceededEmpty: b.SucceededEmpty,
			Failed:         b.Failed,
			ElapsedMs:      b.Elapsed.Milliseconds(),
			SuccessRate:    b.SuccessRate(),
		}
	}
	for i, r := range summary.Results {
		dto.Results[i] = ToExpansionResponseDTO(r)
	}
	return dto
}

func toPointDTOs(points []domain.PriceCalendarPoint) []PointDTO {
	dtos := make([]PointDTO, len(points))
	for i, p := range points {
		dtos[i] = PointDTO{
			OutboundDate: p.OutboundDate,
			ReturnDate:   p.ReturnDate,
			Price:        p.Price,
		}
	}
	return dtos
}

// toBookingPointDTOs attaches a booking link to each point. A point whose
// dates cannot be encoded keeps an empty link rather than failing the
// whole response.
func toBookingPointDTOs(origin, destination string, points []domain.PriceCalendarPoint) []PointDTO {
	dtos := toPointDTOs(points)
	for i := range dtos {
		link, err := travelapi.FlightsURL(origin, destination, dtos[i].OutboundDate, dtos[i].ReturnDate)
		if err != nil {
			continue
		}
		dtos[i].BookingURL = link
	}
	return dtos
}
