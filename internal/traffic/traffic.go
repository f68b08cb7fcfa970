package traffic

import (
	"sync"
	"time"
)

// Outcome classifies one request on the rate-limited paths.
type Outcome int

const (
	// Success is a request that produced a prediction (or page) without error.
	Success Outcome = iota
	// Failure is a request that reached the pipeline and failed.
	Failure
	// Denied is a request rejected by the rate limiter (429).
	Denied
)

// retention bounds how far back any window may look.
const retention = 5 * time.Minute

var defaultTracker = NewTracker()

// RecordSuccess records a successful request outcome.
func RecordSuccess() {
	defaultTracker.Record(Success)
}

// RecordError records a failed prediction (unknown category, schema mismatch, timeout).
func RecordError() {
	defaultTracker.Record(Failure)
}

// RecordDenied records a rate-limit denial (429).
func RecordDenied() {
	defaultTracker.Record(Denied)
}

// RequestCount returns the number of outcomes of any kind within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.RequestCount(window)
}

// DenialCount returns the number of denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.Count(Denied, window)
}

// ErrorRate returns (errors, total) within the window; denials are not part of total.
func ErrorRate(window time.Duration) (errors, total int) {
	return defaultTracker.ErrorRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

type event struct {
	at      time.Time
	outcome Outcome
}

// Tracker keeps a time-ordered log of outcomes for sliding-window health checks.
type Tracker struct {
	mu     sync.Mutex
	events []event
	now    func() time.Time
}

// NewTracker returns an empty Tracker using the wall clock.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Record appends an outcome at the current time and drops entries past retention.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.events = append(t.events, event{at: now, outcome: o})
	cutoff := now.Add(-retention)
	i := 0
	for i < len(t.events) && t.events[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		t.events = append(t.events[:0], t.events[i:]...)
	}
}

// Count returns the number of outcomes of kind o within the window.
func (t *Tracker) Count(o Outcome, window time.Duration) int {
	n := 0
	t.each(window, func(e event) {
		if e.outcome == o {
			n++
		}
	})
	return n
}

// RequestCount returns the number of outcomes of any kind within the window.
func (t *Tracker) RequestCount(window time.Duration) int {
	n := 0
	t.each(window, func(event) { n++ })
	return n
}

// ErrorRate returns (failures, successes+failures) within the window.
func (t *Tracker) ErrorRate(window time.Duration) (errors, total int) {
	t.each(window, func(e event) {
		switch e.outcome {
		case Failure:
			errors++
			total++
		case Success:
			total++
		}
	})
	return errors, total
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// each calls fn for every event not older than window, oldest first.
func (t *Tracker) each(window time.Duration, fn func(event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-window)
	for _, e := range t.events {
		if !e.at.Before(cutoff) {
			fn(e)
		}
	}
}
