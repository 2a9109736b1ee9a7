package timeutil

import (
	"context"
	"sync"
	"time"
)

// Sleeper abstracts delays so pacing logic (worker stagger, batch
// cool-downs, retry waits) can be tested without real time passing.
type Sleeper interface {
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err()
	// in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper sleeps on the wall clock.
type RealSleeper struct{}

// NewRealSleeper creates a RealSleeper.
func NewRealSleeper() *RealSleeper {
	return &RealSleeper{}
}

// Sleep blocks for d, cancellable through ctx.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockSleeper records requested delays without waiting.
type MockSleeper struct {
	mu     sync.Mutex
	slept  []time.Duration
	failAt int
	err    error
}

// NewMockSleeper creates a MockSleeper that never blocks.
func NewMockSleeper() *MockSleeper {
	return &MockSleeper{failAt: -1}
}

// Sleep records d and returns immediately.
func (m *MockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slept = append(m.slept, d)
	if m.failAt >= 0 && len(m.slept) > m.failAt && m.err != nil {
		return m.err
	}
	return nil
}

// Slept returns a copy of the recorded delays.
func (m *MockSleeper) Slept() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}

// TotalSlept returns the sum of all recorded delays.
func (m *MockSleeper) TotalSlept() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, d := range m.slept {
		total += d
	}
	return total
}

var (
	_ Sleeper = (*RealSleeper)(nil)
	_ Sleeper = (*MockSleeper)(nil)
)
