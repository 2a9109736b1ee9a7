package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

const explorePage = `<html><head></head><body>
<script>AF_initDataCallback({key: 'ds:0', hash: '1', data:[], sideChannel: {}});</script>
<script>AF_initDataCallback({key: 'ds:4', hash: '2', data:[[
["Lisbon",["$491","2026-03-10","2026-03-19"],"10 hr 45 min"],
["Porto",["$499","2026-04-02","2026-04-11"],"11 hr 5 min"],
["Lisbon",["$520","2026-05-01","2026-05-09"],"10 hr 45 min"]
]], sideChannel: {}});</script>
</body></html>`

func TestDestinationsFromHTML(t *testing.T) {
	got, err := DestinationsFromHTML("DFW", domain.RegionEurope, []byte(explorePage))

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.DestinationCandidate{
		Origin:       "DFW",
		Destination:  "Lisbon",
		MinPrice:     491,
		Currency:     "USD",
		TripStart:    "2026-03-10",
		TripEnd:      "2026-03-19",
		Duration:     "10 hr 45 min",
		SearchRegion: domain.RegionEurope,
	}, got[0])
	assert.Equal(t, "Porto", got[1].Destination)
	assert.Equal(t, 499, got[1].MinPrice)
}

func TestDestinationsFromHTML_NoDataBlocks(t *testing.T) {
	got, err := DestinationsFromHTML("DFW", domain.RegionEurope, []byte("<html><body>consent wall</body></html>"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDestinationsFromHTML_TruncatedBlockDropped(t *testing.T) {
	// The closing bracket never arrives; the block must yield nothing
	// rather than a phantom card.
	truncated := `<script>AF_initDataCallback({key: 'ds:4', data:[[["Lisbon",["$491","2026-03-10"`

	got, err := DestinationsFromHTML("DFW", domain.RegionEurope, []byte(truncated))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDestinationsFromHTML_EmptyBody(t *testing.T) {
	_, err := DestinationsFromHTML("DFW", domain.RegionEurope, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestDestinationsFromRPC(t *testing.T) {
	body := `)]}'` + "\n" +
		`[["wrb.fr","GetExploreDestinations","[[[\"Faro\",[\"$505\",\"2026-03-12\",\"2026-03-20\"]],[\"Madeira\",[\"$612\"]]]]"]]`

	got, err := DestinationsFromRPC("DFW", domain.RegionEurope, []byte(body))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Faro", got[0].Destination)
	assert.Equal(t, 505, got[0].MinPrice)
	assert.Equal(t, "2026-03-12", got[0].TripStart)
	assert.Equal(t, "2026-03-20", got[0].TripEnd)
	assert.Equal(t, "Madeira", got[1].Destination)
	assert.Equal(t, 612, got[1].MinPrice)
}

func TestDestinationsFromRPC_MalformedEnvelope(t *testing.T) {
	_, err := DestinationsFromRPC("DFW", domain.RegionEurope, []byte("not an envelope"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestCalendarPoints(t *testing.T) {
	body := `)]}'` + "\n" +
		`[["wrb.fr","GetCalendarGraph","[[\"2026-03-01\",\"2026-03-08\",[[null,450]]],[\"2026-03-02\",\"2026-03-09\",[[null,405]]],[\"2026-03-03\",\"2026-03-10\",[[null,610]]]"]]`

	got, err := CalendarPoints([]byte(body))

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.PriceCalendarPoint{OutboundDate: "2026-03-01", ReturnDate: "2026-03-08", Price: 450}, got[0])
	assert.Equal(t, 405, got[1].Price)
	assert.Equal(t, 610, got[2].Price)
}

func TestCalendarPoints_EmptyWindow(t *testing.T) {
	got, err := CalendarPoints([]byte(`)]}'` + "\n" + `[["wrb.fr","GetCalendarGraph","[]"]]`))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCalendarPoints_MissingGuardPrefix(t *testing.T) {
	_, err := CalendarPoints([]byte(`[["2026-03-01","2026-03-08",[[null,450]]]]`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestTokenClassifiers(t *testing.T) {
	tests := []struct {
		token string
		price int
		ok    bool
	}{
		{"$249", 249, true},
		{"249 US dollars", 249, true},
		{"$0", 0, false},
		{"249 US dol", 0, false},
		{"$249 round trip", 0, false},
		{"USD", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			price, ok := parsePriceToken(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.price, price)
		})
	}

	assert.True(t, isDestinationName("Lisbon"))
	assert.True(t, isDestinationName("Rio de Janeiro"))
	assert.False(t, isDestinationName("DFW"))
	assert.False(t, isDestinationName("USD"))
	assert.False(t, isDestinationName("2026-03-10"))
	assert.False(t, isDestinationName("10 hr 45 min"))
	assert.False(t, isDestinationName("$249"))
}
