package city

import "time"

// Task is a periodic callback registered with a Scheduler.
type Task struct {
	name     string
	interval time.Duration
	fn       func()
	next     time.Duration // scheduler time of the next firing
	fired    int
}

// Name returns the label the task was registered under.
func (t *Task) Name() string { return t.name }

// Interval returns the task period.
func (t *Task) Interval() time.Duration { return t.interval }

// Fired counts how many times the callback has run, including runs that were
// no-ops because the session was paused.
func (t *Task) Fired() int { return t.fired }

// Scheduler runs periodic tasks on a virtual clock that only moves when the
// owner calls Advance. Callbacks run on the caller's goroutine, one at a time,
// in due-time order; tasks due at the same instant fire in registration order.
type Scheduler struct {
	tasks   []*Task
	now     time.Duration
	running bool
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every registers fn to run once per interval while the scheduler is running.
// Non-positive intervals are ignored and return nil.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) *Task {
	if interval <= 0 || fn == nil {
		return nil
	}
	t := &Task{name: name, interval: interval, fn: fn, next: s.now + interval}
	s.tasks = append(s.tasks, t)
	return t
}

// Start arms every task one full interval from now. Calling Start on a running
// scheduler does nothing.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	for _, t := range s.tasks {
		t.next = s.now + t.interval
	}
}

// Stop prevents any further firings until Start is called again. Idempotent.
func (s *Scheduler) Stop() {
	s.running = false
}

// Running reports whether Start has been called without a matching Stop.
func (s *Scheduler) Running() bool {
	return s.running
}

// Now returns the scheduler's virtual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves the clock forward by dt, firing every task that comes due.
// A callback that calls Stop halts the remaining firings of this Advance.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	target := s.now + dt
	if !s.running {
		s.now = target
		return
	}
	for s.running {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.next
		t.next += t.interval
		t.fired++
		t.fn()
	}
	s.now = target
}

// nextDue returns the earliest task due at or before target, or nil.
func (s *Scheduler) nextDue(target time.Duration) *Task {
	var best *Task
	for _, t := range s.tasks {
		if t.next > target {
			continue
		}
		if best == nil || t.next < best.next {
			best = t
		}
	}
	return best
}
