package tick

import (
	"errors"
	"testing"
)

func TestNewInspector(t *testing.T) {
	s := newTestScheduler(t)

	inspector := NewInspector(s)
	if inspector == nil {
		t.Fatal("NewInspector() returned nil")
	}
}

func TestInspector_Stats(t *testing.T) {
	s := newTestScheduler(t)
	inspector := NewInspector(s)

	NewTimer(s, 4*s.Interval(), nil).Start()
	NewTimer(s, 4*s.Interval(), nil).Start()
	advanceTicks(t, s, 1)

	stats := inspector.Stats()

	if stats.Subscribers != 2 {
		t.Errorf("Subscribers = %d, want 2", stats.Subscribers)
	}
	if stats.TickCount != 1 {
		t.Errorf("TickCount = %d, want 1", stats.TickCount)
	}
}

func TestInspector_Subscribers(t *testing.T) {
	s := newTestScheduler(t)
	inspector := NewInspector(s)

	tm := NewTimer(s, 4*s.Interval(), nil, WithName("countdown"))
	tm.Start()
	_ = s.Subscribe("plain", &tickRecorder{})
	advanceTicks(t, s, 1)

	infos := inspector.Subscribers()
	if len(infos) != 2 {
		t.Fatalf("Subscribers() len = %d, want 2", len(infos))
	}

	cd := infos[0]
	if cd.Name != "countdown" || !cd.Countdown || !cd.Running || cd.RemainingTicks != 3 {
		t.Errorf("countdown info = %+v", cd)
	}
	if cd.RemainingTime != 3*s.Interval() {
		t.Errorf("RemainingTime = %v, want %v", cd.RemainingTime, 3*s.Interval())
	}

	plain := infos[1]
	if plain.Name != "plain" || plain.Countdown {
		t.Errorf("plain info = %+v", plain)
	}
}

func TestInspector_Subscriber(t *testing.T) {
	s := newTestScheduler(t)
	inspector := NewInspector(s)

	tm := NewTimer(s, 2*s.Interval(), nil, WithName("one"))
	tm.Start()

	info, err := inspector.Subscriber("one")
	if err != nil {
		t.Fatalf("Subscriber() error: %v", err)
	}
	if info.Name != "one" || info.RemainingTicks != 2 {
		t.Errorf("info = %+v", info)
	}
}

func TestInspector_Subscriber_NotFound(t *testing.T) {
	s := newTestScheduler(t)
	inspector := NewInspector(s)

	_, err := inspector.Subscriber("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Subscriber() error = %v, want ErrNotFound", err)
	}
}
