package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

const (
	logLineHeight = 16
	logTitleH     = 28
	logHighlight  = 3 // newest entries drawn highlighted
)

// formatTransmission is the one-line summary shown per log entry.
func formatTransmission(e city.TransmissionEntry, loc *time.Location) string {
	return fmt.Sprintf("%s  #%03d  credits:%d",
		e.Timestamp.In(loc).Format("15:04:05"), e.Seq, e.Payload.GlobalStats.TotalCredits)
}

// drawLogPanel renders the transmission log down the right edge, newest on top.
func (g *Game) drawLogPanel(screen *ebiten.Image) {
	x := float32(g.width - logPanelWidth)
	h := float32(g.height)
	vector.FillRect(screen, x, 0, logPanelWidth, h, color.RGBA{R: 8, G: 6, B: 18, A: 250}, false)
	vector.StrokeLine(screen, x, 0, x, h, 1.5, colPanelEdge, false)

	vector.FillRect(screen, x, 0, logPanelWidth, logTitleH, color.RGBA{R: 20, G: 14, B: 40, A: 255}, false)
	drawText(screen, "TRANSMISSION LOG", g.fonts.boldFace(fontBody), float64(x)+10, 7, colCyan)
	vector.StrokeLine(screen, x, logTitleH, x+logPanelWidth, logTitleH, 1, colPanelEdge, false)

	face := g.fonts.monoFace(fontBody)
	entries := g.sess.Log.Entries()
	if len(entries) == 0 {
		drawText(screen, "Waiting for uplink...", face, float64(x)+12, logTitleH+10, colDim)
		return
	}

	footer := 3 * logLineHeight
	maxVisible := (g.height - logTitleH - 8 - footer) / logLineHeight
	y := float64(logTitleH + 6)
	for i := 0; i < len(entries) && i < maxVisible; i++ {
		e := entries[len(entries)-1-i]
		clr := colDim
		if i < logHighlight {
			vector.FillRect(screen, x+2, float32(y)-1, logPanelWidth-4, logLineHeight, color.RGBA{R: 24, G: 18, B: 50, A: 200}, false)
			clr = colText
		}
		// Stability dot: green healthy, amber strained, red failing.
		dot := colGreen
		switch stab := e.Payload.GlobalStats.AverageStability; {
		case stab < 20:
			dot = colRed
		case stab < 35:
			dot = colAmber
		}
		vector.FillRect(screen, x+6, float32(y)+5, 4, 4, dot, false)
		drawText(screen, formatTransmission(e, g.loc), face, float64(x)+16, y, clr)
		y += logLineHeight
	}

	fy := float64(g.height - footer + 4)
	drawText(screen, fmt.Sprintf("buffered %d/%d", len(entries), city.MaxTransmissions), g.fonts.monoFace(fontSmall), float64(x)+10, fy, colDim)
	if g.notice != "" {
		drawText(screen, g.notice, g.fonts.monoFace(fontSmall), float64(x)+10, fy+logLineHeight, colAmber)
	}
}
