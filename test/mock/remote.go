// Package mock provides test doubles for the discovery engine.
// The centerpiece is a fake remote travel service for integration testing:
// it decodes the opaque descriptor parameter the way the real service
// would and serves scripted explore pages and calendar envelopes.
package mock

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/faredrop/fare-discovery-engine/internal/codec"
)

// calendarPath mirrors the path the calendar client posts to.
const calendarPath = "/_/FlightsFrontendUi/data/travel.frontend.flights.FlightsFrontendService/GetCalendarGraph"

// emptyCalendarEnvelope is a syntactically valid envelope with no price
// triples in it.
const emptyCalendarEnvelope = ")]}'\n" + `[["wrb.fr","GetCalendarGraph","[]"]]`

// Remote is a configurable fake of the remote travel service. Explore
// requests are keyed by the origin recovered from the descriptor
// parameter; calendar requests are keyed by the destination found in the
// posted payload. Configure it with the builder methods, then point the
// travelapi clients at URL().
type Remote struct {
	server *httptest.Server

	mu             sync.Mutex
	explorePages   map[string][]byte
	exploreStatus  int
	exploreFailN   int
	calendarBodies map[string][]byte
	calendarStatus int
	exploreCalls   int
	calendarCalls  int
}

// NewRemote starts a fake remote service. Callers must Close it.
func NewRemote() *Remote {
	r := &Remote{
		explorePages:   make(map[string][]byte),
		calendarBodies: make(map[string][]byte),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/travel/explore", r.handleExplore)
	mux.HandleFunc(calendarPath, r.handleCalendar)
	r.server = httptest.NewServer(mux)
	return r
}

// URL returns the base URL to point clients at.
func (r *Remote) URL() string {
	return r.server.URL
}

// Close shuts the fake service down.
func (r *Remote) Close() {
	r.server.Close()
}

// WithExplorePage scripts the explore page served for an origin.
func (r *Remote) WithExplorePage(origin string, page string) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explorePages[origin] = []byte(page)
	return r
}

// WithExploreStatus forces a status code on every explore response.
func (r *Remote) WithExploreStatus(status int) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exploreStatus = status
	return r
}

// WithExploreFailures forces a 429 on the first n explore requests only.
// Used to exercise retry behavior.
func (r *Remote) WithExploreFailures(n int) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exploreFailN = n
	return r
}

// WithCalendarEnvelope scripts the envelope served for a destination.
// Every horizon window of that route gets the same body.
func (r *Remote) WithCalendarEnvelope(destination string, envelope string) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendarBodies[destination] = []byte(envelope)
	return r
}

// WithCalendarStatus forces a status code on every calendar response.
func (r *Remote) WithCalendarStatus(status int) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendarStatus = status
	return r
}

// ExploreCalls returns how many explore requests were served.
func (r *Remote) ExploreCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exploreCalls
}

// CalendarCalls returns how many calendar requests were served.
func (r *Remote) CalendarCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calendarCalls
}

func (r *Remote) handleExplore(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.exploreCalls++
	calls := r.exploreCalls
	status := r.exploreStatus
	failN := r.exploreFailN
	r.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if calls <= failN {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	// The origin travels only inside the opaque descriptor parameter,
	// exactly as on the real service.
	d, err := codec.Decode(req.URL.Query().Get("tfs"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	r.mu.Lock()
	page, ok := r.explorePages[d.Origin]
	r.mu.Unlock()
	if !ok {
		_, _ = w.Write([]byte("<html><body>no fares</body></html>"))
		return
	}
	_, _ = w.Write(page)
}

func (r *Remote) handleCalendar(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.calendarCalls++
	status := r.calendarStatus
	r.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	raw, _ := io.ReadAll(req.Body)
	payload, err := url.QueryUnescape(string(raw))
	if err != nil {
		payload = string(raw)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for dest, body := range r.calendarBodies {
		if strings.Contains(payload, `\"`+dest+`\"`) {
			_, _ = w.Write(body)
			return
		}
	}
	_, _ = w.Write([]byte(emptyCalendarEnvelope))
}
