package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

type runStats struct {
	runIndex int
	seed     int64
	operator bool

	updates       int
	transmissions int

	firstWarningTick  int
	firstCriticalTick int
	statusChanges     int
	commands          map[string]int

	criticalDistrictTicks int // sum over updates of districts in CRITICAL
	ticksWithCritical     int
	peakCritical          int

	finalCredits int64
	finalAvgLoad float64
	final        []city.District

	windowSummary *city.WindowReport
}

func main() {
	var runs int
	var duration time.Duration
	var seedBase int64
	var seedStep int64
	var operator bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless sessions")
	flag.DurationVar(&duration, "duration", 5*time.Minute, "simulated time per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&operator, "operator", false, "flush or reroute CRITICAL districts automatically after each update")
	flag.BoolVar(&verbose, "v", false, "log session events to stderr")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if duration < city.DefaultUpdateInterval {
		fmt.Printf("error: -duration must be at least %s\n", city.DefaultUpdateInterval)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	out := os.Stdout
	fmt.Fprintf(out, "=== Headless Grid Report ===\n")
	fmt.Fprintf(out, "runs=%d duration=%s seed_base=%d seed_step=%d operator=%v\n\n", runs, duration, seedBase, seedStep, operator)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runSession(i+1, seed, duration, operator, logger)
		all = append(all, rs)
		printRun(out, rs)
	}
	printAggregate(out, all)
}

// runSession drives one seeded session update by update for the given
// simulated duration.
func runSession(runIndex int, seed int64, duration time.Duration, operator bool, logger *slog.Logger) runStats {
	ts := city.NewTestSession(city.WithSeed(seed), city.WithLogger(logger))
	defer ts.Stop()

	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		operator: operator,
		commands: map[string]int{},
	}
	steps := int(duration / ts.UpdateInterval())
	for i := 0; i < steps; i++ {
		ts.Advance(ts.UpdateInterval())
		crit := ts.Store.CriticalCount()
		rs.criticalDistrictTicks += crit
		if crit > 0 {
			rs.ticksWithCritical++
		}
		if crit > rs.peakCritical {
			rs.peakCritical = crit
		}
		if operator {
			for kind, n := range operate(ts.Session) {
				rs.commands[kind.String()] += n
			}
		}
	}

	rs.updates = ts.Updater.Tick()
	rs.transmissions = ts.Journal.Count("transmit", "capture")
	rs.firstWarningTick = ts.Journal.FirstTick("status", "change", "→ WARNING")
	rs.firstCriticalTick = ts.Journal.FirstTick("status", "change", "→ CRITICAL")
	rs.statusChanges = ts.Journal.Count("status", "change")
	rs.finalCredits = ts.Store.TotalCredits()
	rs.finalAvgLoad = ts.Store.AverageLoad()
	rs.final = ts.Store.Districts()
	rs.windowSummary = ts.Reporter.WindowSummary()
	return rs
}

// chooseCommand picks the command that addresses whichever metric is
// critical. Temperature wins when both are.
func chooseCommand(d city.District) city.CommandKind {
	if city.StatusFor(city.MinPowerLoad, d.Temperature) == city.StatusCritical {
		return city.CmdFlushCoolant
	}
	return city.CmdReroutePower
}

// operate plays the operator: every CRITICAL district is selected through the
// Router and sent one command. The selection is cleared afterwards.
func operate(sess *city.Session) map[city.CommandKind]int {
	issued := map[city.CommandKind]int{}
	for _, d := range sess.Store.Districts() {
		if d.Status != city.StatusCritical {
			continue
		}
		if !sess.Router.Select(d.ID) {
			continue
		}
		kind := chooseCommand(d)
		if _, ok := sess.Router.Issue(city.Command{Kind: kind, District: d.ID}); ok {
			issued[kind]++
		}
	}
	if _, ok := sess.Router.Selected(); ok {
		sess.Router.Deselect()
	}
	return issued
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "updates=%d transmissions=%d status_changes=%d\n", rs.updates, rs.transmissions, rs.statusChanges)
	fmt.Fprintf(w, "phase_markers: first_warning=%d first_critical=%d\n", rs.firstWarningTick, rs.firstCriticalTick)
	fmt.Fprintf(w, "critical: ticks_with_critical=%d district_ticks=%d peak=%d\n", rs.ticksWithCritical, rs.criticalDistrictTicks, rs.peakCritical)
	if rs.operator {
		fmt.Fprintf(w, "operator_commands: %s\n", joinCounts(rs.commands))
	}
	fmt.Fprintf(w, "final: credits=%d avg_load=%.1f\n", rs.finalCredits, rs.finalAvgLoad)
	for _, d := range rs.final {
		fmt.Fprintf(w, "  %s %-18s load=%5.1f temp=%5.1f credits=%6d %s\n",
			d.ID, d.Name, d.PowerLoad, d.Temperature, d.CreditsGenerated, d.Status)
	}
	fmt.Fprint(w, rs.windowSummary.Format())
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var (
		totalChanges  int
		totalCritical int
		totalCredits  int64
		totalUpdates  int
		loads         float64
		commands      = map[string]int{}
		criticalTicks []int
		warningTicks  []int
	)
	type districtAgg struct {
		name     string
		critical int
		credits  int64
	}
	districts := map[city.RegionID]*districtAgg{}

	for _, rs := range all {
		totalChanges += rs.statusChanges
		totalCritical += rs.ticksWithCritical
		totalCredits += rs.finalCredits
		totalUpdates += rs.updates
		loads += rs.finalAvgLoad
		for k, n := range rs.commands {
			commands[k] += n
		}
		if rs.firstCriticalTick >= 0 {
			criticalTicks = append(criticalTicks, rs.firstCriticalTick)
		}
		if rs.firstWarningTick >= 0 {
			warningTicks = append(warningTicks, rs.firstWarningTick)
		}
		for _, d := range rs.final {
			ag, ok := districts[d.ID]
			if !ok {
				ag = &districtAgg{name: d.Name}
				districts[d.ID] = ag
			}
			ag.credits += d.CreditsGenerated
			if d.Status == city.StatusCritical {
				ag.critical++
			}
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d avg_updates=%.1f\n", n, avg(totalUpdates, n))
	fmt.Fprintf(w, "avg_per_run: status_changes=%.1f ticks_with_critical=%.1f final_credits=%.0f final_avg_load=%.1f\n",
		avg(totalChanges, n), avg(totalCritical, n), avg64(totalCredits, n), avgF(loads, n))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_warning=%s first_critical=%s\n", avgTickString(warningTicks), avgTickString(criticalTicks))
	if len(commands) > 0 {
		fmt.Fprintf(w, "operator_commands_total: %s\n", joinCounts(commands))
	}

	ids := make([]city.RegionID, 0, len(districts))
	for id := range districts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		ag := districts[id]
		fmt.Fprintf(w, "  %s %-18s avg_credits=%.0f ended_critical=%d/%d\n", id, ag.name, avg64(ag.credits, n), ag.critical, n)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avg64(sum int64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgF(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
