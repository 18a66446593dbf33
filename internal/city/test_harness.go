package city

import (
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// TestSession is a headless session harness used by tests and the batch
// runner. It never renders and drives the clock explicitly.
type TestSession struct {
	*Session

	opts      Options
	width     float64
	height    float64
	autoStart bool
}

// SessionOption is a builder function applied to a TestSession before the
// underlying Session is constructed.
type SessionOption func(*TestSession)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SessionOption {
	return func(ts *TestSession) {
		ts.opts.Seed = seed
		ts.opts.Rand = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}
}

// WithRand injects a random source (e.g. a fixed sequence).
func WithRand(r Rand) SessionOption {
	return func(ts *TestSession) {
		ts.opts.Rand = r
	}
}

// WithClock injects the transmission timestamp source.
func WithClock(now func() time.Time) SessionOption {
	return func(ts *TestSession) {
		ts.opts.Now = now
	}
}

// WithDistricts replaces the seed districts.
func WithDistricts(ds ...District) SessionOption {
	return func(ts *TestSession) {
		ts.opts.Districts = ds
	}
}

// WithIntervals overrides the updater and recorder cadences.
func WithIntervals(update, transmit time.Duration) SessionOption {
	return func(ts *TestSession) {
		ts.opts.UpdateInterval = update
		ts.opts.TransmitInterval = transmit
	}
}

// WithViewportSize mounts the viewport at the given size. Zero leaves it unmounted.
func WithViewportSize(w, h float64) SessionOption {
	return func(ts *TestSession) {
		ts.width = w
		ts.height = h
	}
}

// WithLogger routes session logging somewhere other than a discard handler.
func WithLogger(l *slog.Logger) SessionOption {
	return func(ts *TestSession) {
		ts.opts.Logger = l
	}
}

// WithAutoStart controls whether the harness calls Start (default true).
func WithAutoStart(v bool) SessionOption {
	return func(ts *TestSession) {
		ts.autoStart = v
	}
}

// NewTestSession builds a session from the given options. Defaults: seed 1,
// a fixed clock at 2077-01-01T00:00:00Z, an 800x600 viewport, discard logging,
// started.
func NewTestSession(opts ...SessionOption) *TestSession {
	epoch := time.Date(2077, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := &TestSession{
		width:     800,
		height:    600,
		autoStart: true,
	}
	ts.opts.Seed = 1
	ts.opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, o := range opts {
		o(ts)
	}
	if ts.opts.Now == nil {
		var clock *Session
		ts.opts.Now = func() time.Time {
			if clock == nil {
				return epoch
			}
			return epoch.Add(clock.Elapsed())
		}
		ts.Session = NewSession(ts.opts)
		clock = ts.Session
	} else {
		ts.Session = NewSession(ts.opts)
	}
	ts.Viewport.SetSize(ts.width, ts.height)
	if ts.autoStart {
		ts.Start()
	}
	return ts
}

// RunFor advances the clock by d in frame-sized steps (1/60 s), the way the
// game loop drives it.
func (ts *TestSession) RunFor(d time.Duration) {
	const frame = time.Second / 60
	for d > 0 {
		step := frame
		if d < step {
			step = d
		}
		ts.Advance(step)
		d -= step
	}
}

// RunUpdates advances exactly n updater intervals.
func (ts *TestSession) RunUpdates(n int) {
	for i := 0; i < n; i++ {
		ts.Advance(ts.UpdateInterval())
	}
}

// RunUntil advances one updater interval at a time until predicate returns true
// or maxUpdates is reached. Returns the number of intervals advanced.
func (ts *TestSession) RunUntil(predicate func(*TestSession) bool, maxUpdates int) int {
	for i := 0; i < maxUpdates; i++ {
		if predicate(ts) {
			return i
		}
		ts.Advance(ts.UpdateInterval())
	}
	return maxUpdates
}
