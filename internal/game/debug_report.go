package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

// reportJournalLines caps how many journal events a district report includes.
const reportJournalLines = 20

// districtReport is the plain-text dump copied with F: current metrics, the
// reporter's window for that district, and its recent journal events.
func districtReport(sess *city.Session, id city.RegionID) string {
	d, ok := sess.Store.District(id)
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Neon Grid district report ---\n")
	fmt.Fprintf(&b, "tick=%d elapsed=%s state=%s\n", sess.Updater.Tick(), sess.Elapsed(), sess.Control.State())
	fmt.Fprintf(&b, "%s %s status=%s\n", d.ID, d.Name, d.Status)
	fmt.Fprintf(&b, "load=%.1f%% temp=%.1f pop=%.0fk credits=%d\n\n", d.PowerLoad, d.Temperature, d.Population, d.CreditsGenerated)

	if wr := sess.Reporter.WindowSummary(); wr != nil {
		for _, dw := range wr.Districts {
			if dw.ID != id {
				continue
			}
			fmt.Fprintf(&b, "window T=%d..%d (%d samples)\n", wr.FromTick, wr.ToTick, wr.SampleCount)
			fmt.Fprintf(&b, "  load avg/peak=%.1f/%.1f  temp avg/peak=%.1f/%.1f\n", dw.AvgLoad, dw.PeakLoad, dw.AvgTemp, dw.PeakTemp)
			fmt.Fprintf(&b, "  warning=%d critical=%d credits+=%d\n\n", dw.WarningTicks, dw.CriticalTicks, dw.CreditsEarned)
		}
	} else {
		b.WriteString("window: no samples yet\n\n")
	}

	events := sess.Journal.FilterRegion(id)
	if len(events) == 0 {
		b.WriteString("events: none\n")
		return b.String()
	}
	if len(events) > reportJournalLines {
		events = events[len(events)-reportJournalLines:]
	}
	b.WriteString("events:\n")
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// latestTransmissionJSON renders the newest log entry for the clipboard.
func latestTransmissionJSON(sess *city.Session) (string, bool, error) {
	e, ok := sess.Log.Latest()
	if !ok {
		return "", false, nil
	}
	raw, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", true, fmt.Errorf("encode transmission %d: %w", e.Seq, err)
	}
	return string(raw), true, nil
}

// writeClipboard is the default clipboard backend.
func writeClipboard(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// copyLatest copies the newest transmission as JSON.
func (g *Game) copyLatest() {
	s, ok, err := latestTransmissionJSON(g.sess)
	switch {
	case err != nil:
		g.log.Error("copy transmission failed", "err", err)
		g.setNotice("copy failed")
		return
	case !ok:
		g.setNotice("nothing to copy yet")
		return
	}
	if err := g.copy(s); err != nil {
		g.log.Error("copy transmission failed", "err", err)
		g.setNotice("clipboard unavailable")
		return
	}
	g.setNotice("transmission copied")
}

// copyReport copies the selected district's report.
func (g *Game) copyReport() {
	id, ok := g.sess.Router.Selected()
	if !ok || !id.IsDistrict() {
		g.setNotice("select a district first")
		return
	}
	if err := g.copy(districtReport(g.sess, id)); err != nil {
		g.log.Error("copy report failed", "district", id, "err", err)
		g.setNotice("clipboard unavailable")
		return
	}
	g.setNotice(string(id) + " report copied")
}
