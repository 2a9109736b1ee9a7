// Package http provides the HTTP handler layer for the fare discovery API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// HarvestRequest represents the request body for a single harvest.
type HarvestRequest struct {
	// Origin is the IATA code of the origin airport (e.g., "DFW")
	Origin string `json:"origin"`

	// Region optionally narrows the search to a destination region
	// (e.g., "europe", "central_america"). Empty means anywhere.
	Region string `json:"region,omitempty"`
}

// ExpandRequest represents the request body for a calendar expansion.
type ExpandRequest struct {
	// Origin is the IATA code of the origin airport
	Origin string `json:"origin"`

	// Destination is the IATA code of the destination airport
	Destination string `json:"destination"`

	// ReferencePrice is the harvested price the band is computed against
	ReferencePrice int `json:"referencePrice"`

	// ReferenceStart and ReferenceEnd bound the harvested trip window
	// in YYYY-MM-DD format
	ReferenceStart string `json:"referenceStart"`
	ReferenceEnd   string `json:"referenceEnd"`

	// Threshold is the similar-priced band fraction (optional, server
	// default applies when omitted)
	Threshold float64 `json:"threshold,omitempty"`
}

// RunRequest represents the request body for a full discovery run.
type RunRequest struct {
	// Origins are the IATA codes of the origin airports to harvest
	Origins []string `json:"origins"`

	// Region optionally narrows all harvests to one destination region
	Region string `json:"region,omitempty"`

	// Threshold overrides the configured band fraction (optional)
	Threshold float64 `json:"threshold,omitempty"`

	// TopK overrides how many cheapest candidates per origin get
	// expanded (optional)
	TopK int `json:"topK,omitempty"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// maxRunOrigins bounds one run request; larger sweeps should be split so a
// single HTTP call does not hold a connection open for hours.
const maxRunOrigins = 100

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates the harvest request and returns any validation errors.
func (r *HarvestRequest) Validate() error {
	errs := &ValidationErrors{}

	validateAirportCode(errs, "origin", &r.Origin, true)
	validateRegionName(errs, "region", r.Region)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Validate validates the expand request and returns any validation errors.
func (r *ExpandRequest) Validate() error {
	errs := &ValidationErrors{}

	validateAirportCode(errs, "origin", &r.Origin, true)
	validateAirportCode(errs, "destination", &r.Destination, true)

	if r.Origin != "" && r.Destination != "" && strings.EqualFold(r.Origin, r.Destination) {
		errs.Add("destination", "origin and destination must be different")
	}

	if r.ReferencePrice < 1 {
		errs.Add("referencePrice", "referencePrice must be a positive amount")
	}

	validateDate(errs, "referenceStart", r.ReferenceStart)
	validateDate(errs, "referenceEnd", r.ReferenceEnd)
	if r.ReferenceStart != "" && r.ReferenceEnd != "" && r.ReferenceEnd < r.ReferenceStart {
		errs.Add("referenceEnd", "referenceEnd must not be before referenceStart")
	}

	validateThreshold(errs, r.Threshold)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Validate validates the run request and returns any validation errors.
func (r *RunRequest) Validate() error {
	errs := &ValidationErrors{}

	if len(r.Origins) == 0 {
		errs.Add("origins", "at least one origin is required")
	}
	if len(r.Origins) > maxRunOrigins {
		errs.Add("origins", fmt.Sprintf("at most %d origins per run", maxRunOrigins))
	}
	for i := range r.Origins {
		validateAirportCode(errs, fmt.Sprintf("origins[%d]", i), &r.Origins[i], true)
	}

	validateRegionName(errs, "region", r.Region)
	validateThreshold(errs, r.Threshold)

	if r.TopK < 0 {
		errs.Add("topK", "topK must be a non-negative number")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateAirportCode checks and normalizes a 3-letter IATA code in place.
func validateAirportCode(errs *ValidationErrors, field string, code *string, required bool) {
	if *code == "" {
		if required {
			errs.Add(field, field+" is required")
		}
		return
	}

	normalized := strings.ToUpper(*code)
	if !airportCodePattern.MatchString(normalized) {
		errs.Add(field, field+" must be a valid 3-letter IATA airport code")
		return
	}
	*code = normalized
}

// validateRegionName checks a region against the supported catalogue.
func validateRegionName(errs *ValidationErrors, field, name string) {
	if name == "" {
		return
	}
	if _, ok := domain.ParseRegion(name); !ok {
		errs.Add(field, "region must be one of the supported region names")
	}
}

// validateDate checks a required YYYY-MM-DD date field.
func validateDate(errs *ValidationErrors, field, value string) {
	if value == "" {
		errs.Add(field, field+" is required")
		return
	}

	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return
	}

	if _, err := time.Parse("2006-01-02", value); err != nil {
		errs.Add(field, field+" is not a valid date")
	}
}

// validateThreshold checks an optional band fraction.
func validateThreshold(errs *ValidationErrors, threshold float64) {
	if threshold == 0 {
		return
	}
	if threshold < 0 || threshold >= 1 {
		errs.Add("threshold", "threshold must be a fraction between 0 and 1")
	}
}
