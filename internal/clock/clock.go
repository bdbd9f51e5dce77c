// Package clock abstracts time so that door-open tracking and the command
// verification settle windows can be tested without real sleeps.
package clock

import (
	"sync"
	"time"
)

// Clock provides the time operations the controller depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// Real implements Clock using the standard time package.
type Real struct{}

// NewReal creates a Real clock.
func NewReal() *Real { return &Real{} }

func (*Real) Now() time.Time                  { return time.Now() }
func (*Real) Since(t time.Time) time.Duration { return time.Since(t) }
func (*Real) Sleep(d time.Duration)           { time.Sleep(d) }

// Mock implements Clock with manually advanced time for tests. Sleep
// advances the mock time immediately instead of blocking.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock creates a Mock clock starting at the given instant.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

func (m *Mock) Sleep(d time.Duration) {
	m.Advance(d)
}

// Advance moves the mock time forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
