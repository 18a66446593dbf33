package city

import (
	"strings"
	"testing"
)

func TestReporter_EmptySummary(t *testing.T) {
	r := NewReporter(0)
	if r.Latest() != nil || r.WindowSummary() != nil {
		t.Fatal("empty reporter should have no data")
	}
	var wr *WindowReport
	if !strings.Contains(wr.Format(), "No data") {
		t.Fatal("nil report should format as no data")
	}
}

func TestReporter_WindowSummary(t *testing.T) {
	ts := NewTestSession(WithRand(fixedRand(1)))
	ts.RunUpdates(12)

	wr := ts.Reporter.WindowSummary()
	if wr == nil {
		t.Fatal("expected a window report")
	}
	if wr.SampleCount != 12 || wr.FromTick != 1 || wr.ToTick != 12 {
		t.Fatalf("unexpected window: %d samples T=%d..%d", wr.SampleCount, wr.FromTick, wr.ToTick)
	}
	var d02 *DistrictWindow
	for i := range wr.Districts {
		if wr.Districts[i].ID == VioletSky {
			d02 = &wr.Districts[i]
		}
	}
	if d02 == nil {
		t.Fatal("missing D-02 in window")
	}
	// Load per tick: 67.2, 69.4, then WARNING from 71.6 to 84.8 (ticks 3-9), CRITICAL from tick 10.
	if d02.WarningTicks != 7 || d02.CriticalTicks != 3 {
		t.Fatalf("expected 7 warning / 3 critical ticks, got %d / %d", d02.WarningTicks, d02.CriticalTicks)
	}
	if wr.TicksWithCritical != 3 {
		t.Fatalf("expected 3 ticks with a critical district, got %d", wr.TicksWithCritical)
	}
	if wr.CreditsEarned <= 0 {
		t.Fatalf("credits should grow over the window, got %d", wr.CreditsEarned)
	}
	out := wr.Format()
	if !strings.Contains(out, "Grid Report (T=1..12") || !strings.Contains(out, "D-02") {
		t.Fatalf("unexpected format:\n%s", out)
	}
}

func TestReporter_WindowSlides(t *testing.T) {
	r := NewReporter(5)
	store := NewStore(SeedDistricts())
	for tick := 1; tick <= 20; tick++ {
		r.Collect(tick, store)
	}
	wr := r.WindowSummary()
	if wr.FromTick != 16 || wr.ToTick != 20 || wr.SampleCount != 5 {
		t.Fatalf("expected T=16..20 with 5 samples, got T=%d..%d with %d", wr.FromTick, wr.ToTick, wr.SampleCount)
	}
}
