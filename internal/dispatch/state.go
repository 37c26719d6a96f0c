package dispatch

import (
	"sync/atomic"
	"time"
)

// State is the process-wide server state: identity, start time and the
// request counter. It is created once at startup and passed explicitly to the
// components that need it. The counter is atomic so transports may serve
// requests concurrently.
type State struct {
	name      string
	version   string
	startTime time.Time
	requests  atomic.Int64
}

// NewState creates the state for a server started at startTime.
func NewState(name, version string, startTime time.Time) *State {
	return &State{name: name, version: version, startTime: startTime}
}

func (s *State) Name() string         { return s.name }
func (s *State) Version() string      { return s.version }
func (s *State) StartTime() time.Time { return s.startTime }

// Record counts one request and returns the new total.
func (s *State) Record() int64 {
	return s.requests.Add(1)
}

// Requests returns the number of requests counted so far.
func (s *State) Requests() int64 {
	return s.requests.Load()
}

// Uptime returns the time elapsed between startup and now.
func (s *State) Uptime(now time.Time) time.Duration {
	return now.Sub(s.startTime)
}
