// Package testutil provides shared fixture builders for unit and
// integration tests. The builders produce bodies in the same shape the
// remote service serves, so tests exercise the real extraction paths.
package testutil

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// Fare describes one destination entry of a built explore page.
type Fare struct {
	Destination string
	Price       int
	TripStart   string
	TripEnd     string
}

// ExplorePage builds an explore page whose embedded data payload carries
// the given fares, in the structured form the primary extraction strategy
// walks.
func ExplorePage(fares ...Fare) string {
	var b strings.Builder
	b.WriteString(`<script>AF_initDataCallback({key: 'ds:4', data:[[`)
	for i, f := range fares {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(`["` + f.Destination + `",["$` + strconv.Itoa(f.Price) +
			`","` + f.TripStart + `","` + f.TripEnd + `"]]`)
	}
	b.WriteString(`]], sideChannel: {}});</script>`)
	return b.String()
}

// Point describes one calendar observation of a built envelope.
type Point struct {
	Outbound string
	Return   string
	Price    int
}

// CalendarEnvelope builds a guarded calendar RPC envelope carrying the
// given price points.
func CalendarEnvelope(points ...Point) string {
	var b strings.Builder
	b.WriteString(")]}'\n" + `[["wrb.fr","GetCalendarGraph","`)
	for _, p := range points {
		b.WriteString(`[\"` + p.Outbound + `\",\"` + p.Return + `\",[[null,` +
			strconv.Itoa(p.Price) + `]]],`)
	}
	b.WriteString(`"]]`)
	return b.String()
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// FutureDate returns a date string n days in the future in YYYY-MM-DD
// format. Harvested trip dates must lie ahead of the run anchor.
func FutureDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}
