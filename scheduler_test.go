package easel

import "testing"

func TestSchedulerFiresOnDueTick(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(3, func() { fired++ })

	s.Tick()
	s.Tick()
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	s.Tick()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1 after 3 ticks", fired)
	}
	s.Tick()
	if fired != 1 {
		t.Fatalf("fired again: %d", fired)
	}
}

func TestSchedulerMinimumDelay(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(0, func() { fired = true })
	s.Tick()
	if !fired {
		t.Error("zero-frame delay should fire on the next tick")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	tm := s.After(1, func() { fired = true })
	tm.Cancel()
	if tm.Active() {
		t.Error("cancelled timer should not be active")
	}
	s.Tick()
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestSchedulerCallbackArmsNewTimer(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.After(1, func() {
		order = append(order, "first")
		s.After(1, func() { order = append(order, "second") })
	})

	s.Tick()
	if len(order) != 1 {
		t.Fatalf("nested timer fired on the same tick: %v", order)
	}
	s.Tick()
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
}

func TestSchedulerPendingTimers(t *testing.T) {
	s := NewScheduler()
	a := s.After(5, func() {})
	s.After(5, func() {})
	if got := s.PendingTimers(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	a.Cancel()
	if got := s.PendingTimers(); got != 1 {
		t.Fatalf("pending after cancel = %d, want 1", got)
	}
}

func TestSchedulerFrameCounter(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.Frame() != 10 {
		t.Errorf("frame = %d, want 10", s.Frame())
	}
}
