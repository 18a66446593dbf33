package city

import (
	"log/slog"
	"math"
	"time"
)

// DefaultUpdateInterval is the Updater's cadence.
const DefaultUpdateInterval = 1500 * time.Millisecond

// Random-walk tuning. DriftBias below 0.5 skews both walks upward (55% chance of a
// positive step) so districts creep toward WARNING and CRITICAL over a session.
const (
	DriftBias      = 0.45
	LoadStepScale  = 4.0
	TempStepScale  = 2.0
	CreditsPerLoad = 0.5
)

// Rand is the random source the Updater draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// --- Run state ---

// RunState is the simulation's two-state machine.
type RunState int

const (
	Running RunState = iota
	Paused
)

func (s RunState) String() string {
	if s == Paused {
		return "PAUSED"
	}
	return "RUNNING"
}

// RunControl is the pause flag shared by the Updater and the Recorder. Timers keep
// firing while paused; callbacks check the flag and return without effect.
type RunControl struct {
	state RunState
}

// State returns the current run state.
func (rc *RunControl) State() RunState { return rc.state }

// Paused reports whether ticks are currently suppressed.
func (rc *RunControl) Paused() bool { return rc.state == Paused }

// Pause switches to PAUSED.
func (rc *RunControl) Pause() { rc.state = Paused }

// Resume switches to RUNNING.
func (rc *RunControl) Resume() { rc.state = Running }

// Toggle flips the state and returns the new one.
func (rc *RunControl) Toggle() RunState {
	if rc.state == Paused {
		rc.state = Running
	} else {
		rc.state = Paused
	}
	return rc.state
}

// --- Updater ---

// Updater perturbs every district's load and temperature once per tick.
type Updater struct {
	store   *Store
	control *RunControl
	rng     Rand
	journal *Journal
	log     *slog.Logger

	tick int

	// OnTick runs after each effective tick. The session uses it to feed the reporter.
	OnTick func(tick int)
}

// NewUpdater wires an updater to the store it mutates and the shared pause flag.
func NewUpdater(store *Store, control *RunControl, rng Rand, journal *Journal, log *slog.Logger) *Updater {
	if log == nil {
		log = slog.Default()
	}
	return &Updater{store: store, control: control, rng: rng, journal: journal, log: log}
}

// Tick returns the number of effective (unpaused) ticks so far.
func (u *Updater) Tick() int {
	return u.tick
}

// Step is the timer callback. It is a no-op while paused.
func (u *Updater) Step() {
	if u.control.Paused() {
		return
	}
	u.tick++
	changes := u.store.ApplyAll(u.perturb)
	for _, c := range changes {
		if !c.Changed() {
			continue
		}
		d, _ := u.store.District(c.ID)
		u.journal.Add(u.tick, c.ID, "status", "change", c.Before.String()+" → "+c.After.String(), d.PowerLoad)
		if c.After == StatusCritical {
			u.log.Info("district critical",
				"district", c.ID,
				"load", roundTo(d.PowerLoad, 1),
				"temp", roundTo(d.Temperature, 1),
			)
		}
	}
	u.log.Debug("updater tick", "tick", u.tick, "avg_load", roundTo(u.store.AverageLoad(), 2))
	if u.OnTick != nil {
		u.OnTick(u.tick)
	}
}

// perturb applies one random-walk step. Clamping and status happen in Store.apply.
func (u *Updater) perturb(d *District) {
	loadDelta := (u.rng.Float64() - DriftBias) * LoadStepScale
	tempDelta := (u.rng.Float64() - DriftBias) * TempStepScale
	d.PowerLoad = clamp(d.PowerLoad+loadDelta, MinPowerLoad, MaxPowerLoad)
	d.Temperature = clamp(d.Temperature+tempDelta, MinTemperature, MaxTemperature)
	d.CreditsGenerated += int64(math.Floor(d.PowerLoad * CreditsPerLoad))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
