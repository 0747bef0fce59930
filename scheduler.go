package easel

// TPS is the nominal ticks-per-second of the frame clock. Delays are
// expressed in frames so tests can drive them deterministically by calling
// Tick instead of waiting out wall-clock timers.
const TPS = 60

// Timer is a scheduled-callback handle owned by whoever armed it.
// Cancellation is explicit and deterministic.
type Timer struct {
	due       uint64
	fn        func()
	cancelled bool
	fired     bool
}

// Cancel prevents the timer from firing. Safe to call more than once or
// after the timer has fired.
func (t *Timer) Cancel() {
	t.cancelled = true
}

// Active reports whether the timer is still armed.
func (t *Timer) Active() bool {
	return !t.cancelled && !t.fired
}

// Scheduler is a frame-driven timer wheel: one Tick per display frame,
// callbacks fire on the tick their delay elapses. Single-threaded by
// construction.
type Scheduler struct {
	frame  uint64
	timers []*Timer
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After arms a callback to fire after the given number of frames (minimum 1)
// and returns its handle.
func (s *Scheduler) After(frames int, fn func()) *Timer {
	if frames < 1 {
		frames = 1
	}
	t := &Timer{due: s.frame + uint64(frames), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Tick advances the frame counter and fires every due timer. Callbacks may
// arm new timers; those are scheduled relative to the new frame and are not
// fired during this tick.
func (s *Scheduler) Tick() {
	s.frame++
	// Snapshot the current list so callbacks can append without being
	// visited this tick.
	due := s.timers
	s.timers = s.timers[len(s.timers):]
	for _, t := range due {
		if t.cancelled || t.fired {
			continue
		}
		if t.due > s.frame {
			s.timers = append(s.timers, t)
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Frame returns the current frame counter.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// PendingTimers returns the number of armed timers. Test hook.
func (s *Scheduler) PendingTimers() int {
	n := 0
	for _, t := range s.timers {
		if t.Active() {
			n++
		}
	}
	return n
}
