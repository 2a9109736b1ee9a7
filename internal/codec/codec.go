// Package codec translates a SearchDescriptor to and from the opaque URL
// parameter the remote search service expects. The format was recovered by
// comparing captured parameters against known searches: a protobuf-style
// byte sequence, base64url-encoded without padding.
//
// Encode and Decode are inverses for every descriptor the engine produces,
// and Encode is byte-deterministic. Downstream caching and test fixtures
// rely on both properties.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// Field numbers in the remote wire format.
const (
	fieldLeg        = 3  // repeated leg message
	fieldPassengers = 8  // packed passenger-type run
	fieldSeat       = 9  // cabin class varint
	fieldTrip       = 19 // trip shape varint

	legFieldDate = 2  // leg travel date, ISO string
	legFieldFrom = 13 // departure endpoint message
	legFieldTo   = 14 // arrival endpoint message

	endpointFieldIdent = 2 // airport code or region entity ID
)

// passengerAdult is the only passenger type the engine emits.
const passengerAdult = 1

// entityIDPrefix marks an endpoint ident as a region entity rather than
// an airport code.
const entityIDPrefix = "/m/"

// Encode validates the descriptor and renders it as the opaque,
// URL-safe search parameter.
func Encode(d domain.SearchDescriptor) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	var w writer
	for _, leg := range legsFor(d) {
		w.bytesField(fieldLeg, encodeLeg(leg))
	}
	w.bytesField(fieldPassengers, []byte{passengerAdult})
	w.varintField(fieldSeat, uint64(seatOrDefault(d.Seat)))
	w.varintField(fieldTrip, uint64(tripOrDefault(d.Trip)))

	return base64.RawURLEncoding.EncodeToString(w.buf), nil
}

// leg is one direction of the encoded trip.
type leg struct {
	date string
	from string
	to   string
}

// legsFor lays the descriptor out as the two legs the remote format
// expects. An anywhere search uses one leg carrying only the origin as
// departure and one carrying it as arrival; a region search routes both
// legs through the region entity; a concrete route is origin->destination
// and back.
func legsFor(d domain.SearchDescriptor) []leg {
	switch {
	case d.Destination != "":
		return []leg{
			{date: d.OutboundDate, from: d.Origin, to: d.Destination},
			{date: d.ReturnDate, from: d.Destination, to: d.Origin},
		}
	case d.Region != domain.RegionNone:
		return []leg{
			{date: d.OutboundDate, from: d.Origin, to: d.Region.EntityID()},
			{date: d.ReturnDate, from: d.Region.EntityID(), to: d.Origin},
		}
	default:
		return []leg{
			{date: d.OutboundDate, from: d.Origin},
			{date: d.ReturnDate, to: d.Origin},
		}
	}
}

func encodeLeg(l leg) []byte {
	var w writer
	if l.date != "" {
		w.stringField(legFieldDate, l.date)
	}
	if l.from != "" {
		w.bytesField(legFieldFrom, encodeEndpoint(l.from))
	}
	if l.to != "" {
		w.bytesField(legFieldTo, encodeEndpoint(l.to))
	}
	return w.buf
}

func encodeEndpoint(ident string) []byte {
	var w writer
	w.stringField(endpointFieldIdent, ident)
	return w.buf
}

// Decode parses an opaque search parameter back into a descriptor.
// Unknown fields are skipped; structurally broken input is rejected.
func Decode(param string) (domain.SearchDescriptor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(param, "="))
	if err != nil {
		return domain.SearchDescriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}

	var (
		legs []leg
		seat = domain.SeatEconomy
		trip = domain.TripRoundTrip
	)

	r := &reader{buf: raw}
	for {
		field, wireType, ok, err := r.next()
		if err != nil {
			return domain.SearchDescriptor{}, fmt.Errorf("decode descriptor: %w", err)
		}
		if !ok {
			break
		}

		switch {
		case field == fieldLeg && wireType == wireBytes:
			b, err := r.bytes()
			if err != nil {
				return domain.SearchDescriptor{}, fmt.Errorf("decode leg: %w", err)
			}
			l, err := decodeLeg(b)
			if err != nil {
				return domain.SearchDescriptor{}, err
			}
			legs = append(legs, l)
		case field == fieldSeat && wireType == wireVarint:
			v, err := r.varint()
			if err != nil {
				return domain.SearchDescriptor{}, fmt.Errorf("decode seat: %w", err)
			}
			seat = int(v)
		case field == fieldTrip && wireType == wireVarint:
			v, err := r.varint()
			if err != nil {
				return domain.SearchDescriptor{}, fmt.Errorf("decode trip: %w", err)
			}
			trip = int(v)
		default:
			if err := r.skip(wireType); err != nil {
				return domain.SearchDescriptor{}, fmt.Errorf("decode field %d: %w", field, err)
			}
		}
	}

	return descriptorFrom(legs, seat, trip)
}

func decodeLeg(raw []byte) (leg, error) {
	var l leg
	r := &reader{buf: raw}
	for {
		field, wireType, ok, err := r.next()
		if err != nil {
			return leg{}, fmt.Errorf("decode leg: %w", err)
		}
		if !ok {
			return l, nil
		}

		switch {
		case field == legFieldDate && wireType == wireBytes:
			b, err := r.bytes()
			if err != nil {
				return leg{}, fmt.Errorf("decode leg date: %w", err)
			}
			l.date = string(b)
		case field == legFieldFrom && wireType == wireBytes:
			b, err := r.bytes()
			if err != nil {
				return leg{}, fmt.Errorf("decode leg origin: %w", err)
			}
			if l.from, err = decodeEndpoint(b); err != nil {
				return leg{}, err
			}
		case field == legFieldTo && wireType == wireBytes:
			b, err := r.bytes()
			if err != nil {
				return leg{}, fmt.Errorf("decode leg destination: %w", err)
			}
			if l.to, err = decodeEndpoint(b); err != nil {
				return leg{}, err
			}
		default:
			if err := r.skip(wireType); err != nil {
				return leg{}, fmt.Errorf("decode leg field %d: %w", field, err)
			}
		}
	}
}

func decodeEndpoint(raw []byte) (string, error) {
	r := &reader{buf: raw}
	for {
		field, wireType, ok, err := r.next()
		if err != nil {
			return "", fmt.Errorf("decode endpoint: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("decode endpoint: missing ident")
		}
		if field == endpointFieldIdent && wireType == wireBytes {
			b, err := r.bytes()
			if err != nil {
				return "", fmt.Errorf("decode endpoint ident: %w", err)
			}
			return string(b), nil
		}
		if err := r.skip(wireType); err != nil {
			return "", fmt.Errorf("decode endpoint field %d: %w", field, err)
		}
	}
}

// descriptorFrom reconstructs the descriptor from its decoded legs.
func descriptorFrom(legs []leg, seat, trip int) (domain.SearchDescriptor, error) {
	if len(legs) == 0 {
		return domain.SearchDescriptor{}, fmt.Errorf("decode descriptor: no legs")
	}

	first := legs[0]
	d := domain.SearchDescriptor{
		Origin:       first.from,
		OutboundDate: first.date,
		Trip:         trip,
		Seat:         seat,
		Locale:       "en",
		Market:       "us",
	}
	if len(legs) > 1 {
		d.ReturnDate = legs[1].date
		if d.Origin == "" {
			// Anywhere searches carry the origin only as the second
			// leg's arrival.
			d.Origin = legs[1].to
		}
	}

	switch {
	case first.to == "":
		// Anywhere search: nothing more to fill in.
	case strings.HasPrefix(first.to, entityIDPrefix):
		region, ok := domain.RegionFromEntityID(first.to)
		if !ok {
			return domain.SearchDescriptor{}, fmt.Errorf("decode descriptor: unknown region entity %q", first.to)
		}
		d.Region = region
	default:
		d.Destination = first.to
	}

	if err := d.Validate(); err != nil {
		return domain.SearchDescriptor{}, err
	}
	return d, nil
}

func seatOrDefault(seat int) int {
	if seat == 0 {
		return domain.SeatEconomy
	}
	return seat
}

func tripOrDefault(trip int) int {
	if trip == 0 {
		return domain.TripRoundTrip
	}
	return trip
}
