package city

import (
	"math"
	"math/rand"
	"testing"
)

// fixedRand always returns the same draw.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestUpdater(rng Rand) (*Updater, *Store, *RunControl, *Journal) {
	store := NewStore(SeedDistricts())
	control := &RunControl{}
	journal := NewJournal(0)
	return NewUpdater(store, control, rng, journal, nil), store, control, journal
}

func TestUpdater_StepMath(t *testing.T) {
	u, store, _, _ := newTestUpdater(fixedRand(1))
	u.Step()
	d, _ := store.District(AmberHaze)
	// load 45 + (1-0.45)*4 = 47.2, temp 42 + (1-0.45)*2 = 43.1
	if math.Abs(d.PowerLoad-47.2) > 1e-9 {
		t.Fatalf("expected load 47.2, got %.6f", d.PowerLoad)
	}
	if math.Abs(d.Temperature-43.1) > 1e-9 {
		t.Fatalf("expected temp 43.1, got %.6f", d.Temperature)
	}
	// credits += floor(47.2 * 0.5) = 23
	if d.CreditsGenerated != 1273 {
		t.Fatalf("expected credits 1273, got %d", d.CreditsGenerated)
	}
	if u.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", u.Tick())
	}
}

func TestUpdater_PausedIsNoOp(t *testing.T) {
	u, store, control, _ := newTestUpdater(fixedRand(1))
	control.Pause()
	before := store.Districts()
	for i := 0; i < 10; i++ {
		u.Step()
	}
	if u.Tick() != 0 {
		t.Fatalf("paused updater advanced tick to %d", u.Tick())
	}
	after := store.Districts()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("paused updater mutated %s", before[i].ID)
		}
	}
}

func TestUpdater_ClampsAtFloor(t *testing.T) {
	u, store, _, _ := newTestUpdater(fixedRand(0))
	for i := 0; i < 200; i++ {
		u.Step()
	}
	for _, d := range store.Districts() {
		if d.PowerLoad != MinPowerLoad || d.Temperature != MinTemperature {
			t.Fatalf("%s should sit at the floor, got load=%.2f temp=%.2f", d.ID, d.PowerLoad, d.Temperature)
		}
	}
}

func TestUpdater_Invariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		u, store, _, _ := newTestUpdater(rand.New(rand.NewSource(seed)))
		prev := store.Districts()
		for i := 0; i < 2000; i++ {
			u.Step()
			cur := store.Districts()
			for j, d := range cur {
				if d.PowerLoad < MinPowerLoad || d.PowerLoad > MaxPowerLoad {
					t.Fatalf("seed %d tick %d: %s load out of range: %.2f", seed, i, d.ID, d.PowerLoad)
				}
				if d.Temperature < MinTemperature || d.Temperature > MaxTemperature {
					t.Fatalf("seed %d tick %d: %s temp out of range: %.2f", seed, i, d.ID, d.Temperature)
				}
				if d.Status != StatusFor(d.PowerLoad, d.Temperature) {
					t.Fatalf("seed %d tick %d: %s stale status %s", seed, i, d.ID, d.Status)
				}
				if d.CreditsGenerated < prev[j].CreditsGenerated {
					t.Fatalf("seed %d tick %d: %s credits decreased", seed, i, d.ID)
				}
				if d.Population != prev[j].Population || d.Name != prev[j].Name {
					t.Fatalf("seed %d tick %d: %s immutable field changed", seed, i, d.ID)
				}
			}
			prev = cur
		}
	}
}

func TestUpdater_JournalsStatusChanges(t *testing.T) {
	u, _, _, journal := newTestUpdater(fixedRand(1))
	var ticks []int
	u.OnTick = func(tick int) { ticks = append(ticks, tick) }
	for i := 0; i < 20; i++ {
		u.Step()
	}
	// D-02 crosses 70% load on the third step: 65 + 3*2.2 = 71.6.
	if got := journal.FirstTick("status", "change", "NORMAL → WARNING"); got != 3 {
		t.Fatalf("expected first WARNING at tick 3, got %d\n%s", got, journal.Format())
	}
	entries := journal.FilterRegion(VioletSky)
	if len(entries) == 0 {
		t.Fatal("expected journal entries for D-02")
	}
	if len(ticks) != 20 || ticks[19] != 20 {
		t.Fatalf("OnTick should run once per effective tick, got %v", ticks)
	}
}

func TestRunControl_Toggle(t *testing.T) {
	var rc RunControl
	if rc.State() != Running {
		t.Fatal("zero RunControl should be RUNNING")
	}
	if rc.Toggle() != Paused || !rc.Paused() {
		t.Fatal("toggle should pause")
	}
	if rc.Toggle() != Running || rc.Paused() {
		t.Fatal("second toggle should resume")
	}
	if Paused.String() != "PAUSED" {
		t.Fatalf("unexpected label %q", Paused.String())
	}
}
