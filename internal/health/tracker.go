package health

import (
	"sync"
	"time"

	"github.com/postalsys/rawping/internal/ping"
)

// Stats is a snapshot of the ping loop.
type Stats struct {
	Destination string
	Address     string
	Attempts    int
	Replies     int
	LastStatus  string
	LastRTT     time.Duration
	LastAttempt int
}

// Tracker records outcomes from the ping loop and serves them to the
// health endpoints. It implements StatsProvider.
type Tracker struct {
	mu      sync.RWMutex
	running bool
	stats   Stats
}

// NewTracker creates a tracker for the given destination.
func NewTracker(destination, address string) *Tracker {
	return &Tracker{stats: Stats{Destination: destination, Address: address}}
}

// SetRunning marks the ping loop as started or finished.
func (t *Tracker) SetRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = running
}

// Record adds the outcome of attempt n.
func (t *Tracker) Record(n int, o ping.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Attempts++
	t.stats.LastAttempt = n
	t.stats.LastStatus = o.Status.String()
	t.stats.LastRTT = 0
	if o.OK() {
		t.stats.Replies++
		t.stats.LastRTT = o.RTT
	}
}

// IsRunning implements StatsProvider.
func (t *Tracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Stats implements StatsProvider.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}
