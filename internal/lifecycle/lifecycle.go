package lifecycle

import (
	"sync/atomic"
	"time"
)

var (
	shuttingDown atomic.Bool
	readyAt      atomic.Int64 // unix nanos; 0 until MarkReady
)

// MarkReady records the moment artifacts finished loading and the server began accepting requests.
func MarkReady(t time.Time) {
	readyAt.Store(t.UnixNano())
}

// Uptime returns time since MarkReady, or 0 if the process never became ready.
func Uptime(now time.Time) time.Duration {
	ns := readyAt.Load()
	if ns == 0 {
		return 0
	}
	return now.Sub(time.Unix(0, ns))
}

// SetShuttingDown sets the drain flag. Call when SIGTERM/SIGINT is received;
// /health reports shutting-down with 503 while it is set.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown reports whether the process is draining.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}
