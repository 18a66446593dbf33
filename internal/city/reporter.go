package city

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window (~60s at the default 1.5s cadence).
const reportWindowTicks = 40

// --- Snapshot types ---

// DistrictSample captures one district at one tick.
type DistrictSample struct {
	ID          RegionID
	PowerLoad   float64
	Temperature float64
	Credits     int64
	Status      Status
}

// CitySample is a full snapshot of the store at one tick.
type CitySample struct {
	Tick          int
	Districts     []DistrictSample
	TotalCredits  int64
	AverageLoad   float64
	CriticalCount int
}

// --- Reporter ---

// Reporter samples the store every updater tick and summarises a sliding window.
type Reporter struct {
	history     []CitySample
	windowTicks int
}

// NewReporter creates a reporter with the given window size in ticks.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{windowTicks: windowTicks}
}

// Collect records a sample from the current store state.
func (r *Reporter) Collect(tick int, store *Store) {
	ds := store.Districts()
	sample := CitySample{
		Tick:          tick,
		Districts:     make([]DistrictSample, len(ds)),
		TotalCredits:  totalCredits(ds),
		AverageLoad:   averageLoad(ds),
		CriticalCount: store.CriticalCount(),
	}
	for i, d := range ds {
		sample.Districts[i] = DistrictSample{
			ID:          d.ID,
			PowerLoad:   d.PowerLoad,
			Temperature: d.Temperature,
			Credits:     d.CreditsGenerated,
			Status:      d.Status,
		}
	}
	r.history = append(r.history, sample)

	// Keep two windows so WindowSummary always has a full window behind it.
	maxKeep := r.windowTicks * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = append(r.history[:0:0], r.history[len(r.history)-maxKeep:]...)
	}
}

// Latest returns the most recent sample, or nil if none collected yet.
func (r *Reporter) Latest() *CitySample {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// Samples returns how many samples are retained.
func (r *Reporter) Samples() int {
	return len(r.history)
}

// DistrictWindow aggregates one district over a window.
type DistrictWindow struct {
	ID            RegionID
	AvgLoad       float64
	AvgTemp       float64
	PeakLoad      float64
	PeakTemp      float64
	WarningTicks  int
	CriticalTicks int
	CreditsEarned int64
}

// WindowReport is an aggregated summary over a tick window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	Districts []DistrictWindow

	AvgLoad           float64
	AvgCriticalCount  float64
	CreditsEarned     int64
	TicksWithCritical int
}

// WindowSummary aggregates the samples within the most recent window.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	start := len(r.history) - 1
	for start > 0 && r.history[start-1].Tick > cutoff {
		start--
	}
	window := r.history[start:]

	n := float64(len(window))
	first, last := window[0], window[len(window)-1]
	wr := &WindowReport{
		FromTick:      first.Tick,
		ToTick:        last.Tick,
		SampleCount:   len(window),
		CreditsEarned: last.TotalCredits - first.TotalCredits,
	}

	byID := make(map[RegionID]*DistrictWindow)
	for _, ds := range first.Districts {
		wr.Districts = append(wr.Districts, DistrictWindow{ID: ds.ID})
	}
	for i := range wr.Districts {
		byID[wr.Districts[i].ID] = &wr.Districts[i]
	}

	for _, s := range window {
		wr.AvgLoad += s.AverageLoad
		wr.AvgCriticalCount += float64(s.CriticalCount)
		if s.CriticalCount > 0 {
			wr.TicksWithCritical++
		}
		for _, ds := range s.Districts {
			dw := byID[ds.ID]
			if dw == nil {
				continue
			}
			dw.AvgLoad += ds.PowerLoad
			dw.AvgTemp += ds.Temperature
			if ds.PowerLoad > dw.PeakLoad {
				dw.PeakLoad = ds.PowerLoad
			}
			if ds.Temperature > dw.PeakTemp {
				dw.PeakTemp = ds.Temperature
			}
			switch ds.Status {
			case StatusWarning:
				dw.WarningTicks++
			case StatusCritical:
				dw.CriticalTicks++
			}
		}
	}

	wr.AvgLoad /= n
	wr.AvgCriticalCount /= n
	for i := range wr.Districts {
		wr.Districts[i].AvgLoad /= n
		wr.Districts[i].AvgTemp /= n
	}
	for i, ds := range first.Districts {
		for _, ls := range last.Districts {
			if ls.ID == ds.ID {
				wr.Districts[i].CreditsEarned = ls.Credits - ds.Credits
			}
		}
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Grid Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  avg load %5.1f%%   avg critical %.2f   ticks with critical %d   credits +%d\n",
		wr.AvgLoad, wr.AvgCriticalCount, wr.TicksWithCritical, wr.CreditsEarned)

	sb.WriteString("\n--- Districts ---\n")
	fmt.Fprintf(&sb, "  %-5s %7s %7s %7s %7s %5s %5s %9s\n",
		"ID", "avgLd", "peakLd", "avgTmp", "peakTp", "warn", "crit", "credits")
	for _, d := range wr.Districts {
		fmt.Fprintf(&sb, "  %-5s %7.1f %7.1f %7.1f %7.1f %5d %5d %+9d\n",
			d.ID, d.AvgLoad, d.PeakLoad, d.AvgTemp, d.PeakTemp, d.WarningTicks, d.CriticalTicks, d.CreditsEarned)
	}
	return sb.String()
}
