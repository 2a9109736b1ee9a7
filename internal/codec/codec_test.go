package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// capturedEuropeParam is a parameter captured from a live DFW -> Europe
// search; the encoder must reproduce it byte for byte.
const capturedEuropeParam = "GhNqBRIDREZXcgoSCC9tLzAyajl6GhNqChIIL20vMDJqOXpyBRIDREZXQgEBSAGYAQE"

func TestEncode_MatchesCapturedParameter(t *testing.T) {
	d := domain.NewExploreDescriptor("DFW", domain.RegionEurope)

	got, err := Encode(d)

	require.NoError(t, err)
	assert.Equal(t, capturedEuropeParam, got)
}

func TestEncode_RegionSearchIsOpaque(t *testing.T) {
	d := domain.NewExploreDescriptor("DFW", domain.RegionEurope)

	got, err := Encode(d)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, "DFW")
	assert.NotContains(t, got, "EUROPE")
	assert.NotContains(t, got, "europe")

	back, err := Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "DFW", back.Origin)
	assert.Empty(t, back.Destination)
	assert.Equal(t, domain.RegionEurope, back.Region)
}

func TestEncode_Deterministic(t *testing.T) {
	d := domain.NewRouteDescriptor("DFW", "LIS", "2026-03-10", "2026-03-19")

	first, err := Encode(d)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Encode(d)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRoundTrip(t *testing.T) {
	descriptors := []domain.SearchDescriptor{
		domain.NewExploreDescriptor("DFW", domain.RegionNone),
		domain.NewExploreDescriptor("JFK", domain.RegionEurope),
		domain.NewExploreDescriptor("LAX", domain.RegionOceania),
		domain.NewExploreDescriptor("PHX", domain.RegionCaribbean),
		domain.NewRouteDescriptor("DFW", "LIS", "2026-03-10", "2026-03-19"),
		domain.NewRouteDescriptor("SEA", "FCO", "2026-11-01", "2026-11-12"),
	}

	for _, d := range descriptors {
		t.Run(d.Origin+"_"+string(d.Region)+d.Destination, func(t *testing.T) {
			encoded, err := Encode(d)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, d, decoded)
		})
	}
}

func TestEncode_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name string
		d    domain.SearchDescriptor
	}{
		{"bad origin", domain.NewExploreDescriptor("dallas", domain.RegionEurope)},
		{"empty origin", domain.NewExploreDescriptor("", domain.RegionNone)},
		{"bad destination", domain.NewRouteDescriptor("DFW", "lisbon", "2026-03-10", "2026-03-19")},
		{"inverted dates", domain.NewRouteDescriptor("DFW", "LIS", "2026-03-19", "2026-03-10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidDescriptor))
		})
	}
}

func TestDecode_RejectsBrokenInput(t *testing.T) {
	tests := []struct {
		name  string
		param string
	}{
		{"not base64", "%%%%"},
		{"empty", ""},
		{"random bytes", "AAAA"},
		{"truncated capture", capturedEuropeParam[:12]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.param)
			assert.Error(t, err)
		})
	}
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	// A capture with leading unknown varint fields (1 and 2), as seen on
	// parameters collected from rendered pages.
	const withUnknowns = "CBwQAxoTagUSA0RGV3IKEggvbS8wMmo5ehoTagoSCC9tLzAyajl6cgUSA0RGV0IBAUgBmAEB"

	d, err := Decode(withUnknowns)

	require.NoError(t, err)
	assert.Equal(t, "DFW", d.Origin)
	assert.Equal(t, domain.RegionEurope, d.Region)
}
