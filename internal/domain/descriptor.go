package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Trip shapes supported by the remote search service.
const (
	TripRoundTrip = 1
	TripOneWay    = 2
)

// Seat classes supported by the remote search service.
const (
	SeatEconomy  = 1
	SeatBusiness = 3
	SeatFirst    = 4
)

// SearchDescriptor is the structured form of one remote search request.
// It is an immutable value: encoding is a pure function of these fields,
// and two descriptors with identical fields encode identically. Downstream
// caching and test fixtures depend on that determinism.
type SearchDescriptor struct {
	// Origin is the IATA code of the departure airport.
	Origin string

	// Destination is the IATA code of the arrival airport.
	// Empty means "anywhere" (optionally scoped by Region).
	Destination string

	// Region scopes an anywhere search to one destination region.
	// Only meaningful when Destination is empty.
	Region Region

	// OutboundDate and ReturnDate are YYYY-MM-DD strings. Both may be empty
	// for an undated explore search; the remote service then picks a window.
	OutboundDate string
	ReturnDate   string

	// Trip is the trip shape (TripRoundTrip by default).
	Trip int

	// Seat is the cabin class (SeatEconomy by default).
	Seat int

	// Locale is the UI language ("en") and Market the market/country
	// code ("us") sent alongside the descriptor.
	Locale string
	Market string
}

var (
	airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	isoDateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NewExploreDescriptor builds the descriptor for a harvest query:
// round-trip economy from origin to anywhere, optionally region-scoped.
func NewExploreDescriptor(origin string, region Region) SearchDescriptor {
	return SearchDescriptor{
		Origin: origin,
		Region: region,
		Trip:   TripRoundTrip,
		Seat:   SeatEconomy,
		Locale: "en",
		Market: "us",
	}
}

// NewRouteDescriptor builds the descriptor for a dated origin/destination
// round trip, as used by calendar expansion.
func NewRouteDescriptor(origin, destination, outbound, ret string) SearchDescriptor {
	return SearchDescriptor{
		Origin:       origin,
		Destination:  destination,
		OutboundDate: outbound,
		ReturnDate:   ret,
		Trip:         TripRoundTrip,
		Seat:         SeatEconomy,
		Locale:       "en",
		Market:       "us",
	}
}

// Validate checks the descriptor before it is encoded or sent anywhere.
// Returns a wrapped ErrInvalidDescriptor on the first problem found.
func (d SearchDescriptor) Validate() error {
	if d.Origin == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidDescriptor)
	}
	if !airportCodeRegex.MatchString(d.Origin) {
		return fmt.Errorf("%w: origin must be a 3-letter IATA code, got %q", ErrInvalidDescriptor, d.Origin)
	}
	if d.Destination != "" && !airportCodeRegex.MatchString(d.Destination) {
		return fmt.Errorf("%w: destination must be a 3-letter IATA code, got %q", ErrInvalidDescriptor, d.Destination)
	}
	if d.Destination != "" && d.Destination == d.Origin {
		return fmt.Errorf("%w: origin and destination must be different", ErrInvalidDescriptor)
	}
	if d.Destination != "" && d.Region != RegionNone {
		return fmt.Errorf("%w: region filter and explicit destination are mutually exclusive", ErrInvalidDescriptor)
	}
	if !d.Region.IsValid() {
		return fmt.Errorf("%w: unknown region %q", ErrInvalidDescriptor, d.Region)
	}
	if err := validateDate("outbound date", d.OutboundDate); err != nil {
		return err
	}
	if err := validateDate("return date", d.ReturnDate); err != nil {
		return err
	}
	if d.OutboundDate != "" && d.ReturnDate != "" && d.ReturnDate < d.OutboundDate {
		return fmt.Errorf("%w: return date %s precedes outbound date %s", ErrInvalidDescriptor, d.ReturnDate, d.OutboundDate)
	}
	if d.Trip != 0 && d.Trip != TripRoundTrip && d.Trip != TripOneWay {
		return fmt.Errorf("%w: unknown trip shape %d", ErrInvalidDescriptor, d.Trip)
	}
	return nil
}

// validateDate checks an optional YYYY-MM-DD field.
func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if !isoDateRegex.MatchString(value) {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrInvalidDescriptor, field, value)
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%w: %s is not a valid date: %s", ErrInvalidDescriptor, field, value)
	}
	return nil
}

// Anywhere reports whether the descriptor is an open-destination search.
func (d SearchDescriptor) Anywhere() bool {
	return d.Destination == ""
}

// Describe returns a short human-readable form for logs, e.g.
// "DFW->europe" or "DFW->LIS".
func (d SearchDescriptor) Describe() string {
	switch {
	case d.Destination != "":
		return d.Origin + "->" + d.Destination
	case d.Region != RegionNone:
		return d.Origin + "->" + string(d.Region)
	default:
		return d.Origin + "->anywhere"
	}
}
