package lifecycle

import (
	"testing"
	"time"
)

func TestSetShuttingDown(t *testing.T) {
	defer SetShuttingDown(false)

	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true, want false")
	}
	SetShuttingDown(true)
	if !IsShuttingDown() {
		t.Error("IsShuttingDown() = false after SetShuttingDown(true), want true")
	}
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true after SetShuttingDown(false), want false")
	}
}

func TestUptime(t *testing.T) {
	defer readyAt.Store(0)

	readyAt.Store(0)
	if got := Uptime(time.Now()); got != 0 {
		t.Errorf("Uptime() before MarkReady = %v, want 0", got)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	MarkReady(start)
	if got := Uptime(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Uptime() = %v, want 1m30s", got)
	}
}
