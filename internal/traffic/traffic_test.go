package traffic

import (
	"sync"
	"testing"
	"time"
)

func TestRequestCount_Empty(t *testing.T) {
	Reset()
	if n := RequestCount(time.Minute); n != 0 {
		t.Errorf("RequestCount() = %d, want 0", n)
	}
}

func TestRecordDenied_CountsAsRequest(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordDenied()
	RecordDenied()
	if n := DenialCount(time.Minute); n != 2 {
		t.Errorf("DenialCount() = %d, want 2", n)
	}
	if n := RequestCount(time.Minute); n != 3 {
		t.Errorf("RequestCount() = %d, want 3", n)
	}
}

// TestErrorRate_ExcludesDenials verifies that 429s do not dilute or inflate the error rate.
func TestErrorRate_ExcludesDenials(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordSuccess()
	RecordSuccess()
	RecordError()
	RecordDenied()
	errors, total := ErrorRate(time.Minute)
	if errors != 1 || total != 4 {
		t.Errorf("ErrorRate() = (%d, %d), want (1, 4)", errors, total)
	}
}

func TestTracker_WindowExcludesOldEvents(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.now = func() time.Time { return now }

	tr.Record(Failure)
	now = now.Add(90 * time.Second)
	tr.Record(Success)

	if n := tr.RequestCount(time.Minute); n != 1 {
		t.Errorf("RequestCount(1m) = %d, want 1", n)
	}
	if n := tr.RequestCount(2 * time.Minute); n != 2 {
		t.Errorf("RequestCount(2m) = %d, want 2", n)
	}
	errors, total := tr.ErrorRate(time.Minute)
	if errors != 0 || total != 1 {
		t.Errorf("ErrorRate(1m) = (%d, %d), want (0, 1)", errors, total)
	}
}

func TestTracker_PrunesPastRetention(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.now = func() time.Time { return now }

	tr.Record(Success)
	tr.Record(Success)
	now = now.Add(retention + time.Second)
	tr.Record(Denied)

	if len(tr.events) != 1 {
		t.Fatalf("len(events) = %d, want 1 after pruning", len(tr.events))
	}
	if n := tr.Count(Denied, retention); n != 1 {
		t.Errorf("Count(Denied) = %d, want 1", n)
	}
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record(Success)
		}()
	}
	wg.Wait()
	if n := tr.RequestCount(time.Minute); n != 50 {
		t.Errorf("RequestCount() = %d, want 50", n)
	}
}
