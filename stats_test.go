package tick

import "testing"

func TestCounters_Record(t *testing.T) {
	var c counters

	c.recordAdvance()
	c.recordDispatch()
	c.recordDispatch()
	c.recordPanic()
	c.recordClamp()
	c.recordDrop(1)
	c.recordDrop(5)
	c.recordSubscribe()
	c.recordUnsubscribe()

	stats := &Stats{}
	c.fill(stats)

	if stats.Advances != 1 {
		t.Errorf("Advances = %d, want 1", stats.Advances)
	}
	if stats.Dispatches != 2 {
		t.Errorf("Dispatches = %d, want 2", stats.Dispatches)
	}
	if stats.Panics != 1 {
		t.Errorf("Panics = %d, want 1", stats.Panics)
	}
	if stats.ClampedDeltas != 1 {
		t.Errorf("ClampedDeltas = %d, want 1", stats.ClampedDeltas)
	}
	if stats.DroppedTicks != 6 {
		t.Errorf("DroppedTicks = %d, want 6", stats.DroppedTicks)
	}
	if stats.Subscribes != 1 {
		t.Errorf("Subscribes = %d, want 1", stats.Subscribes)
	}
	if stats.Unsubscribes != 1 {
		t.Errorf("Unsubscribes = %d, want 1", stats.Unsubscribes)
	}
}
