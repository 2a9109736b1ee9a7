package travelapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faredrop/fare-discovery-engine/internal/codec"
	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
)

func TestExploreClient_FetchPage(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte("<html>explore page</html>"))
	}))
	defer server.Close()

	client := NewExploreClientWithBase(server.URL, logger.Nop())
	d := domain.NewExploreDescriptor("DFW", domain.RegionEurope)

	body, err := client.FetchPage(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, "<html>explore page</html>", string(body))

	require.NotNil(t, captured)
	assert.Equal(t, "/travel/explore", captured.URL.Path)

	q := captured.URL.Query()
	assert.NotEmpty(t, q.Get("tfs"))
	assert.NotContains(t, q.Get("tfs"), "DFW")
	assert.Equal(t, "en", q.Get("hl"))
	assert.Equal(t, "us", q.Get("gl"))
	assert.Equal(t, "USD", q.Get("curr"))
	assert.Contains(t, captured.Header.Get("Cookie"), "CONSENT=YES")
	assert.Contains(t, captured.Header.Get("User-Agent"), "Mozilla/5.0")
}

func TestExploreClient_FetchPage_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewExploreClientWithBase(server.URL, logger.Nop())

	_, err := client.FetchPage(context.Background(), domain.NewExploreDescriptor("DFW", domain.RegionEurope))

	require.Error(t, err)
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.Equal(t, "explore", te.Endpoint)
}

func TestExploreClient_FetchPage_InvalidDescriptor(t *testing.T) {
	client := NewExploreClientWithBase("http://127.0.0.1:0", logger.Nop())

	_, err := client.FetchPage(context.Background(), domain.NewExploreDescriptor("dallas", domain.RegionEurope))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDescriptor))
	assert.False(t, domain.IsTransport(err))
}

func TestCalendarClient_FetchWindow(t *testing.T) {
	const envelope = `)]}'` + "\n" + `[["wrb.fr","GetCalendarGraph","[]"]]`

	var capturedBody string
	var capturedQuery url.Values
	var capturedHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		capturedBody = string(raw)
		capturedQuery = r.URL.Query()
		capturedHeader = r.Header.Clone()
		w.Write([]byte(envelope))
	}))
	defer server.Close()

	client := NewCalendarClientWithBase(server.URL, logger.Nop())

	body, err := client.FetchWindow(context.Background(), CalendarRequest{
		Origin:       "DFW",
		Destination:  "LIS",
		OutboundDate: "2026-03-10",
		ReturnDate:   "2026-03-19",
		WindowStart:  "2026-03-01",
		WindowEnd:    "2026-05-30",
	})

	require.NoError(t, err)
	assert.Equal(t, envelope, string(body))

	assert.Equal(t, "c", capturedQuery.Get("rt"))
	assert.Equal(t, "en", capturedQuery.Get("hl"))
	assert.NotEmpty(t, capturedQuery.Get("_reqid"))
	assert.Equal(t, "1", capturedHeader.Get("X-Same-Domain"))
	assert.Contains(t, capturedHeader.Get("Content-Type"), "application/x-www-form-urlencoded")

	require.True(t, strings.HasPrefix(capturedBody, "f.req="))
	decoded, err := url.QueryUnescape(strings.TrimSuffix(strings.TrimPrefix(capturedBody, "f.req="), "&"))
	require.NoError(t, err)
	assert.Contains(t, decoded, `\"DFW\"`)
	assert.Contains(t, decoded, `\"LIS\"`)
	assert.Contains(t, decoded, `\"2026-03-10\"`)
	assert.Contains(t, decoded, `[\"2026-03-01\",\"2026-05-30\"]`)
}

func TestCalendarClient_FetchWindow_RequestIDsIncrease(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.URL.Query().Get("_reqid"))
		w.Write([]byte(")]}'\n[]"))
	}))
	defer server.Close()

	client := NewCalendarClientWithBase(server.URL, logger.Nop())
	cr := CalendarRequest{Origin: "DFW", Destination: "LIS", OutboundDate: "2026-03-10", ReturnDate: "2026-03-19", WindowStart: "2026-03-01", WindowEnd: "2026-05-30"}

	for i := 0; i < 3; i++ {
		_, err := client.FetchWindow(context.Background(), cr)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestCalendarClient_FetchWindow_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewCalendarClientWithBase(server.URL, logger.Nop())

	_, err := client.FetchWindow(context.Background(), CalendarRequest{Origin: "DFW", Destination: "LIS"})

	require.Error(t, err)
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "calendar", te.Endpoint)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
}

func TestFlightsURL_RoundTripLink(t *testing.T) {
	link, err := FlightsURL("DFW", "LIS", "2026-03-10", "2026-03-19")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, DefaultBaseURL+"/travel/flights?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "en", q.Get("hl"))
	assert.Equal(t, "us", q.Get("gl"))
	assert.Equal(t, "USD", q.Get("curr"))

	d, err := codec.Decode(q.Get("tfs"))
	require.NoError(t, err)
	assert.Equal(t, "DFW", d.Origin)
	assert.Equal(t, "LIS", d.Destination)
	assert.Equal(t, "2026-03-10", d.OutboundDate)
	assert.Equal(t, "2026-03-19", d.ReturnDate)
}

func TestFlightsURL_InvalidRoute(t *testing.T) {
	_, err := FlightsURL("Dallas", "LIS", "2026-03-10", "2026-03-19")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDescriptor)
}
