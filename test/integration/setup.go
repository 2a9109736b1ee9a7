// Package integration wires the real engine components together against a
// fake remote service: travelapi clients, harvester, expander, the paced
// orchestrator and the HTTP layer. Only the browser renderer and the deal
// store are left out; the renderer needs a real browser engine and the
// store a live database.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/faredrop/fare-discovery-engine/internal/adapter/airports"
	httpAdapter "github.com/faredrop/fare-discovery-engine/internal/adapter/http"
	"github.com/faredrop/fare-discovery-engine/internal/adapter/travelapi"
	"github.com/faredrop/fare-discovery-engine/internal/expand"
	"github.com/faredrop/fare-discovery-engine/internal/harvest"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/timeutil"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
	"github.com/faredrop/fare-discovery-engine/test/mock"
)

// Engine bundles the wired components for one test.
type Engine struct {
	Harvester *harvest.Harvester
	Expander  *expand.Expander
	Runner    usecase.DiscoveryUseCase
	Sleeper   *timeutil.MockSleeper
}

// TestConfig returns orchestrator settings with all pacing delays
// collapsed so integration runs finish quickly. The single-empty-retry
// cool-off is kept at one millisecond rather than zero so the retry path
// still runs.
func TestConfig() usecase.Config {
	return usecase.Config{
		HarvestWorkers:  2,
		ExpandWorkers:   2,
		MajorBatchSize:  4,
		MiniBatchSize:   2,
		EmptyRetryDelay: time.Millisecond,
		Threshold:       0.10,
		TopK:            2,
	}
}

// NewEngine wires the full pipeline against the fake remote. The rendered
// fallback is disabled; extraction runs on the structured payload alone.
func NewEngine(remote *mock.Remote, cfg usecase.Config) *Engine {
	log := logger.Nop()
	sleeper := timeutil.NewMockSleeper()

	exploreClient := travelapi.NewExploreClientWithBase(remote.URL(), log)
	calendarClient := travelapi.NewCalendarClientWithBase(remote.URL(), log)

	harvester := harvest.NewHarvester(exploreClient, nil, airports.NewResolver(), log)
	expander := expand.NewExpander(
		travelapi.CalendarWindowFetcher{Client: calendarClient},
		timeutil.NewRealClock(),
		sleeper,
		log,
	)

	runner := usecase.NewDiscoveryUseCase(
		harvester, expander, nil, cfg,
		timeutil.NewRealClock(), sleeper, log,
	)

	return &Engine{
		Harvester: harvester,
		Expander:  expander,
		Runner:    runner,
		Sleeper:   sleeper,
	}
}

// TestServer wraps an Echo instance over a wired engine.
type TestServer struct {
	Echo   *echo.Echo
	Engine *Engine
}

// NewTestServer builds the HTTP layer on top of a wired engine.
func NewTestServer(engine *Engine) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := httpAdapter.NewDiscoveryHandler(engine.Harvester, engine.Expander, engine.Runner)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:   e,
		Engine: engine,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// HarvestRequest posts a harvest request.
func (ts *TestServer) HarvestRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/harvest",
		Body:   body,
	})
}

// ExpandRequest posts an expand request.
func (ts *TestServer) ExpandRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/expand",
		Body:   body,
	})
}

// RunRequest posts a run request; the call blocks until the run finishes.
func (ts *TestServer) RunRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/runs",
		Body:   body,
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]interface{}, error) {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}
