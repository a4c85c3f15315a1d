package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingConn captures writes and flags any two that overlap in time.
type recordingConn struct {
	mu      sync.Mutex
	events  []AlertEvent
	writing int32
	overlap int32
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	c.mu.Lock()
	c.events = append(c.events, v.(AlertEvent))
	c.mu.Unlock()
	atomic.StoreInt32(&c.writing, 0)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) snapshot() []AlertEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]AlertEvent, len(c.events))
	copy(out, c.events)
	return out
}

func waitForEvents(t *testing.T, conn *recordingConn, n int) []AlertEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := conn.snapshot(); len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(conn.snapshot()))
	return nil
}

func TestFanOutSerializesWritesPerConnection(t *testing.T) {
	conn := &recordingConn{}
	id := RegisterAlertStream(conn, 1)
	defer UnregisterAlertStream(id)

	titles := []string{"first", "second", "third", "fourth", "fifth"}
	for _, title := range titles {
		FanOutAlertEvent(AlertEvent{Type: "alert", Title: title, Severity: 3})
	}

	events := waitForEvents(t, conn, len(titles))
	if atomic.LoadInt32(&conn.overlap) != 0 {
		t.Fatal("detected concurrent writes on a single connection")
	}
	for i, title := range titles {
		if events[i].Title != title {
			t.Fatalf("event %d = %q, want %q (delivery must preserve order)", i, events[i].Title, title)
		}
	}
}

func TestFanOutHonorsSeverityFloor(t *testing.T) {
	conn := &recordingConn{}
	id := RegisterAlertStream(conn, 3)
	defer UnregisterAlertStream(id)

	FanOutAlertEvent(AlertEvent{Title: "minor", Severity: 2})
	FanOutAlertEvent(AlertEvent{Title: "major", Severity: 4})

	events := waitForEvents(t, conn, 1)
	time.Sleep(20 * time.Millisecond)
	events = conn.snapshot()
	if len(events) != 1 || events[0].Title != "major" {
		t.Fatalf("expected only the severity-4 event, got %#v", events)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	conn := &recordingConn{}
	id := RegisterAlertStream(conn, 1)
	UnregisterAlertStream(id)

	FanOutAlertEvent(AlertEvent{Title: "after close", Severity: 5})
	time.Sleep(20 * time.Millisecond)

	if events := conn.snapshot(); len(events) != 0 {
		t.Fatalf("unregistered connection received %d events", len(events))
	}
}
