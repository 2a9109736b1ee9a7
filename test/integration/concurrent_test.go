package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faredrop/fare-discovery-engine/internal/usecase"
	"github.com/faredrop/fare-discovery-engine/test/mock"
	"github.com/faredrop/fare-discovery-engine/test/testutil"
)

func TestConcurrentHarvestRequests(t *testing.T) {
	origins := []string{"DFW", "AUS", "SAT", "IAH", "ELP"}

	remote := mock.NewRemote()
	for i, origin := range origins {
		remote.WithExplorePage(origin, testutil.ExplorePage(
			testutil.Fare{
				Destination: "Lisbon",
				Price:       450 + i,
				TripStart:   "2026-03-10",
				TripEnd:     "2026-03-19",
			},
		))
	}
	defer remote.Close()

	ts := NewTestServer(NewEngine(remote, TestConfig()))

	var wg sync.WaitGroup
	statuses := make([]int, len(origins))

	for i, origin := range origins {
		wg.Add(1)
		go func(i int, origin string) {
			defer wg.Done()
			resp := ts.HarvestRequest(map[string]string{"origin": origin})
			statuses[i] = resp.Code
		}(i, origin)
	}
	wg.Wait()

	for i, status := range statuses {
		assert.Equal(t, http.StatusOK, status, "origin %s", origins[i])
	}
	assert.Equal(t, len(origins), remote.ExploreCalls())
}

func TestConcurrentRunRequests(t *testing.T) {
	remote := mock.NewRemote().
		WithExplorePage("DFW", testutil.ExplorePage(
			testutil.Fare{Destination: "Lisbon", Price: 491, TripStart: "2026-03-10", TripEnd: "2026-03-19"},
		)).
		WithExplorePage("AUS", testutil.ExplorePage(
			testutil.Fare{Destination: "Porto", Price: 505, TripStart: "2026-04-02", TripEnd: "2026-04-11"},
		)).
		WithCalendarEnvelope("LIS", testutil.CalendarEnvelope(
			testutil.Point{Outbound: "2026-02-01", Return: "2026-02-08", Price: 470},
		)).
		WithCalendarEnvelope("OPO", testutil.CalendarEnvelope(
			testutil.Point{Outbound: "2026-02-03", Return: "2026-02-10", Price: 500},
		))
	defer remote.Close()

	engine := NewEngine(remote, TestConfig())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, origin := range []string{"DFW", "AUS"} {
		wg.Add(1)
		go func(i int, origin string) {
			defer wg.Done()
			_, errs[i] = engine.Runner.Run(context.Background(), usecase.RunRequest{
				Origins: []string{origin},
			})
		}(i, origin)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "run %d", i)
	}
	assert.Equal(t, 2, remote.ExploreCalls())
	assert.Equal(t, 8, remote.CalendarCalls())
}

func TestRunPacing_MiniPausesAndMajorCooldowns(t *testing.T) {
	// No pages scripted: every origin harvests empty, so the sleeper
	// records only the batch pacing, never expansion jitter.
	remote := mock.NewRemote()
	defer remote.Close()

	cfg := TestConfig()
	cfg.MiniPause = 30 * time.Second
	cfg.MajorCooldown = 10 * time.Minute
	engine := NewEngine(remote, cfg)

	// Five origins with a major of four and minis of two: one pause
	// between the first major's minis, one cooldown before the second
	// major, nothing after the run ends.
	summary, err := engine.Runner.Run(context.Background(), usecase.RunRequest{
		Origins: []string{"DFW", "AUS", "SAT", "IAH", "ELP"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.SucceededEmpty)

	slept := engine.Sleeper.Slept()
	require.Len(t, slept, 2)
	assert.Equal(t, 30*time.Second, slept[0])
	assert.Equal(t, 10*time.Minute, slept[1])
}

func TestRunCancellation_StopsPromptly(t *testing.T) {
	remote := mock.NewRemote().
		WithExplorePage("DFW", testutil.ExplorePage(
			testutil.Fare{Destination: "Lisbon", Price: 491, TripStart: "2026-03-10", TripEnd: "2026-03-19"},
		))
	defer remote.Close()

	engine := NewEngine(remote, TestConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := engine.Runner.Run(ctx, usecase.RunRequest{
		Origins: []string{"DFW", "AUS"},
	})
	require.NoError(t, err, "cancellation fails units, not the run itself")
	assert.Equal(t, int64(2), summary.Failed)
	assert.Equal(t, int64(0), summary.SucceededData)
	assert.Equal(t, 0, remote.ExploreCalls(), "no remote traffic after cancellation")
}
