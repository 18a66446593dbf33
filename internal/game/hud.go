package game

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// gridLoadAlarm is the average load above which the HUD readout turns red.
const gridLoadAlarm = 80.0

func loadColor(avg float64) color.RGBA {
	if avg > gridLoadAlarm {
		return colRed
	}
	return colCyan
}

// drawHUD renders the top bar: title, pause control, revenue, grid load, alerts.
func (g *Game) drawHUD(screen *ebiten.Image) {
	w := float32(g.width - logPanelWidth)
	vector.FillRect(screen, 0, 0, w, hudHeight, color.RGBA{R: 10, G: 8, B: 24, A: 250}, false)
	vector.StrokeLine(screen, 0, hudHeight, w, hudHeight, 1.5, colPanelEdge, false)
	drawText(screen, "NEON GRID", g.fonts.boldFace(fontLabel+2), 14, 11, colMagenta)

	store := g.sess.Store
	label := g.fonts.monoFace(fontSmall)
	value := g.fonts.boldFace(fontLabel)

	x := 280.0
	stat := func(name, val string, clr color.Color) {
		drawText(screen, name, label, x, 5, colDim)
		drawText(screen, val, value, x, 19, clr)
		x += 170
	}
	stat("REVENUE", "¢"+humanize.Comma(store.TotalCredits()), colAmber)
	avg := store.AverageLoad()
	stat("GRID LOAD", fmt.Sprintf("%.1f%%", avg), loadColor(avg))
	alerts := store.CriticalCount()
	alertClr := colGreen
	if alerts > 0 {
		alertClr = colRed
	}
	stat("ALERTS", strconv.Itoa(alerts), alertClr)

	state := "RUNNING"
	stateClr := colGreen
	if g.sess.Paused() {
		state = "PAUSED"
		stateClr = colAmber
	}
	stat("STATUS", state, stateClr)
}

// drawMapControls renders the magnification readout and control help along
// the bottom of the map. The zoom buttons themselves come from buttons().
func (g *Game) drawMapControls(screen *ebiten.Image) {
	ma := g.mapArea()
	face := g.fonts.monoFace(fontSmall)
	y := ma.y + ma.h - btnHeight - margin - 18
	mag := fmt.Sprintf("MAGNIFICATION %d%%", int(g.sess.Viewport.Committed().Scale*100+0.5))
	drawText(screen, mag, face, ma.x+margin, y, colCyan)
	help := "drag pan · wheel zoom · click district · P pause · Esc close · R reset · 1-4/H focus · C copy · F report"
	drawText(screen, help, face, ma.x+margin+2*(btnHeight+6)+112, ma.y+ma.h-margin-btnHeight/2-6, colDim)
}
