package city

import (
	"log/slog"
	"math/rand"
	"time"
)

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Seed             int64
	Rand             Rand             // overrides Seed when set
	Now              func() time.Time // transmission timestamps; defaults to time.Now
	Districts        []District       // defaults to SeedDistricts()
	UpdateInterval   time.Duration
	TransmitInterval time.Duration
	WheelSensitivity float64
	JournalCap       int // 0 = unbounded
	ReportWindow     int // ticks
	Logger           *slog.Logger
}

// Session is the root controller. It owns every component and is the only
// place that knows how they are wired together.
type Session struct {
	Store     *Store
	Control   *RunControl
	Updater   *Updater
	Recorder  *Recorder
	Log       *TransmissionLog
	Viewport  *Viewport
	Router    *Router
	Journal   *Journal
	Reporter  *Reporter
	Scheduler *Scheduler

	updateTask   *Task
	transmitTask *Task

	log     *slog.Logger
	started bool
}

// NewSession builds a stopped session. Nothing ticks until Start.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed)) // #nosec G404 -- simulation noise, not security
	}
	seed := opts.Districts
	if seed == nil {
		seed = SeedDistricts()
	}
	updateEvery := opts.UpdateInterval
	if updateEvery <= 0 {
		updateEvery = DefaultUpdateInterval
	}
	transmitEvery := opts.TransmitInterval
	if transmitEvery <= 0 {
		transmitEvery = DefaultTransmitInterval
	}

	s := &Session{
		Store:     NewStore(seed),
		Control:   &RunControl{},
		Log:       NewTransmissionLog(),
		Viewport:  NewViewport(opts.WheelSensitivity),
		Journal:   NewJournal(opts.JournalCap),
		Reporter:  NewReporter(opts.ReportWindow),
		Scheduler: NewScheduler(),
		log:       logger,
	}
	s.Updater = NewUpdater(s.Store, s.Control, rng, s.Journal, logger.With("component", "updater"))
	s.Recorder = NewRecorder(s.Store, s.Control, s.Log, s.Journal, opts.Now, logger.With("component", "recorder"))
	s.Router = NewRouter(s.Viewport, s.Store, s.Journal, logger.With("component", "router"))

	s.Recorder.tick = s.Updater.Tick
	s.Router.tick = s.Updater.Tick
	s.Updater.OnTick = func(tick int) {
		s.Reporter.Collect(tick, s.Store)
	}

	s.updateTask = s.Scheduler.Every("updater", updateEvery, s.Updater.Step)
	s.transmitTask = s.Scheduler.Every("recorder", transmitEvery, s.Recorder.Step)
	return s
}

// Start arms both timers. Calling it again is a no-op.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	s.Scheduler.Start()
	s.Journal.Add(s.Updater.Tick(), "", "run", "start", s.Control.State().String(), 0)
	s.log.Info("session started",
		"update_every", s.updateTask.Interval(),
		"transmit_every", s.transmitTask.Interval(),
	)
}

// Stop cancels both timers. Idempotent.
func (s *Session) Stop() {
	if !s.started {
		return
	}
	s.started = false
	s.Scheduler.Stop()
	s.Journal.Add(s.Updater.Tick(), "", "run", "stop", "", 0)
	s.log.Info("session stopped", "ticks", s.Updater.Tick(), "transmissions", s.Log.Len())
}

// Started reports whether the timers are armed.
func (s *Session) Started() bool {
	return s.started
}

// TogglePause flips RUNNING/PAUSED and returns the new state. Timers keep
// firing while paused, so resuming never replays missed ticks.
func (s *Session) TogglePause() RunState {
	state := s.Control.Toggle()
	s.Journal.Add(s.Updater.Tick(), "", "run", "state", state.String(), 0)
	s.log.Info("run state changed", "state", state)
	return state
}

// Paused reports whether the simulation is frozen.
func (s *Session) Paused() bool {
	return s.Control.Paused()
}

// Advance moves the session clock by dt: camera easing first, then timers.
func (s *Session) Advance(dt time.Duration) {
	s.Viewport.Advance(dt)
	s.Scheduler.Advance(dt)
}

// Elapsed returns the session's virtual clock.
func (s *Session) Elapsed() time.Duration {
	return s.Scheduler.Now()
}

// UpdateInterval returns the updater cadence.
func (s *Session) UpdateInterval() time.Duration {
	return s.updateTask.Interval()
}

// TransmitInterval returns the recorder cadence.
func (s *Session) TransmitInterval() time.Duration {
	return s.transmitTask.Interval()
}
