package travelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/timeutil"
)

const calendarEndpoint = "calendar"

// calendarPath is the batch-execute style path behind the price graph UI.
const calendarPath = "/_/FlightsFrontendUi/data/travel.frontend.flights.FlightsFrontendService/GetCalendarGraph"

// calendarBuildLabel is the frontend build the request claims to come
// from. Stale labels keep working for months; refresh when the endpoint
// starts returning empty envelopes for known-good routes.
const calendarBuildLabel = "boq_travel-frontend-flights-ui_20251118.02_p0"

// CalendarRequest asks for all priced (outbound, return) combinations of
// one route within one date window.
type CalendarRequest struct {
	Origin       string
	Destination  string
	OutboundDate string
	ReturnDate   string
	WindowStart  string
	WindowEnd    string
}

// CalendarClient fetches price-graph windows for a fixed route.
type CalendarClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
	reqID      atomic.Int64
}

// NewCalendarClient creates a CalendarClient against the production origin.
func NewCalendarClient(log *logger.Logger, opts ...ClientOption) *CalendarClient {
	return NewCalendarClientWithBase(DefaultBaseURL, log, opts...)
}

// NewCalendarClientWithBase creates a CalendarClient against a custom
// origin. Used by tests to point at a local server.
func NewCalendarClientWithBase(baseURL string, log *logger.Logger, opts ...ClientOption) *CalendarClient {
	if log == nil {
		log = logger.Nop()
	}
	c := &CalendarClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c.httpClient)
	}
	return c
}

// FetchWindow posts one calendar-graph request and returns the raw
// envelope body. The caller extracts triples from it; a zero-triple body
// is a legitimate empty window, not an error.
func (c *CalendarClient) FetchWindow(ctx context.Context, cr CalendarRequest) ([]byte, error) {
	body, err := calendarBody(cr)
	if err != nil {
		return nil, fmt.Errorf("building calendar body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.calendarURL(), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Same-Domain", "1")
	req.Header.Set("Referer", "https://www.google.com/travel/flights")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(calendarEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewStatusError(calendarEndpoint, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewTransportError(calendarEndpoint, err)
	}

	c.log.Debug().
		Str("route", cr.Origin+"-"+cr.Destination).
		Str("window", cr.WindowStart+".."+cr.WindowEnd).
		Int("bytes", len(raw)).
		Msg("Calendar window fetched")

	return raw, nil
}

// CalendarWindowFetcher adapts CalendarClient to the expander's port,
// which speaks in route fields plus a date window.
type CalendarWindowFetcher struct {
	Client *CalendarClient
}

// FetchWindow implements the expander's WindowFetcher.
func (f CalendarWindowFetcher) FetchWindow(ctx context.Context, origin, destination, outboundDate, returnDate string, window timeutil.DateWindow) ([]byte, error) {
	return f.Client.FetchWindow(ctx, CalendarRequest{
		Origin:       origin,
		Destination:  destination,
		OutboundDate: outboundDate,
		ReturnDate:   returnDate,
		WindowStart:  window.Start,
		WindowEnd:    window.End,
	})
}

func (c *CalendarClient) calendarURL() string {
	q := url.Values{}
	q.Set("f.sid", "1")
	q.Set("bl", calendarBuildLabel)
	q.Set("hl", "en")
	q.Set("gl", "us")
	q.Set("soc-app", "162")
	q.Set("soc-platform", "1")
	q.Set("soc-device", "1")
	q.Set("_reqid", strconv.FormatInt(c.reqID.Add(1), 10))
	q.Set("rt", "c")
	return c.baseURL + calendarPath + "?" + q.Encode()
}

// calendarBody builds the f.req form payload. The inner structure is a
// positional array captured from the live frontend; the nulls are
// placeholders for fields the frontend sends but the endpoint does not
// require. It is JSON-encoded twice: once as the inner structure, then
// again as a string element of the outer two-element array.
func calendarBody(cr CalendarRequest) (string, error) {
	leg := func(from, to, date string) []any {
		return []any{
			[]any{[]any{[]any{from, 0}}},
			[]any{[]any{[]any{to, 0}}},
			nil, 0, nil, nil, date,
			nil, nil, nil, nil, nil, nil, nil, 3,
		}
	}

	inner := []any{
		nil,
		[]any{
			nil, nil, 1, nil, []any{}, 1, []any{1, 0, 0, 0}, nil, nil, nil, nil, nil, nil,
			[]any{
				leg(cr.Origin, cr.Destination, cr.OutboundDate),
				leg(cr.Destination, cr.Origin, cr.ReturnDate),
			},
			nil, nil, nil, 1,
		},
		[]any{cr.WindowStart, cr.WindowEnd},
		nil,
		[]any{9, 9},
	}

	innerJSON, err := json.Marshal(inner)
	if err != nil {
		return "", err
	}
	outerJSON, err := json.Marshal([]any{nil, string(innerJSON)})
	if err != nil {
		return "", err
	}
	return "f.req=" + url.QueryEscape(string(outerJSON)) + "&", nil
}
