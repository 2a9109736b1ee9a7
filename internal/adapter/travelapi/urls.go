package travelapi

import (
	"net/url"

	"github.com/faredrop/fare-discovery-engine/internal/codec"
	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// FlightsURL builds a navigable search link for a dated round trip, the
// form consumers follow to book a discovered deal. The route and dates
// travel in the same opaque parameter the engine uses for its own fetches.
func FlightsURL(origin, destination, outbound, ret string) (string, error) {
	d := domain.NewRouteDescriptor(origin, destination, outbound, ret)
	tfs, err := codec.Encode(d)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("tfs", tfs)
	q.Set("hl", d.Locale)
	q.Set("gl", d.Market)
	q.Set("curr", "USD")
	return DefaultBaseURL + "/travel/flights?" + q.Encode(), nil
}
