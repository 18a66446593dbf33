package game

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

const panelLineH = 20

// drawControlPanel renders the selected district's readouts. The command and
// close buttons are drawn later with the rest of buttons().
func (g *Game) drawControlPanel(screen *ebiten.Image, id city.RegionID) {
	d, ok := g.sess.Store.District(id)
	if !ok {
		return
	}
	r := g.panelRect()
	neon := districtNeon[id]
	drawPanelFrame(screen, r, neon)

	x := r.x + margin
	y := r.y + 10
	drawText(screen, d.Name, g.fonts.boldFace(fontLabel+2), x, y, neon)
	y += 24
	drawText(screen, "SECTOR "+string(d.ID), g.fonts.monoFace(fontSmall), x, y, colDim)

	// Status badge.
	sc := statusColor(d.Status)
	badge := rectF{x: r.x + r.w - 110, y: y - 3, w: 96, h: 18}
	vector.FillRect(screen, float32(badge.x), float32(badge.y), float32(badge.w), float32(badge.h),
		color.RGBA{R: sc.R / 5, G: sc.G / 5, B: sc.B / 5, A: 230}, false)
	vector.StrokeRect(screen, float32(badge.x), float32(badge.y), float32(badge.w), float32(badge.h), 1, sc, false)
	drawTextCentered(screen, d.Status.String(), g.fonts.boldFace(fontSmall), badge.x+badge.w/2, badge.y+badge.h/2, sc)
	y += panelLineH + 6

	body := g.fonts.monoFace(fontBody)
	drawText(screen, "CENSUS    "+humanize.Comma(int64(d.Population*1000+0.5))+" citizens", body, x, y, colText)
	y += panelLineH
	drawText(screen, fmt.Sprintf("CREDITS   ¢%s", humanize.Comma(d.CreditsGenerated)), body, x, y, colAmber)
	y += panelLineH + 6

	bw := r.w - 2*margin
	drawText(screen, fmt.Sprintf("POWER LOAD  %.1f%%", d.PowerLoad), body, x, y, colText)
	y += 16
	drawBar(screen, rectF{x: x, y: y, w: bw, h: 10}, d.PowerLoad, city.MaxPowerLoad, loadBarColor(d.PowerLoad))
	y += 20
	drawText(screen, fmt.Sprintf("THERMAL     %.1f°", d.Temperature), body, x, y, colText)
	y += 16
	drawBar(screen, rectF{x: x, y: y, w: bw, h: 10}, d.Temperature-city.MinTemperature,
		city.MaxTemperature-city.MinTemperature, thermalBarColor(d.Temperature))
}

// loadBarColor and thermalBarColor reuse the status thresholds so a bar turns
// amber or red exactly when that metric alone would change the badge.
func loadBarColor(load float64) color.RGBA {
	if s := city.StatusFor(load, city.MinTemperature); s != city.StatusNormal {
		return statusColor(s)
	}
	return colCyan
}

func thermalBarColor(temp float64) color.RGBA {
	if s := city.StatusFor(city.MinPowerLoad, temp); s != city.StatusNormal {
		return statusColor(s)
	}
	return colMagenta
}

// drawNexusModal renders the HQ detail dialog. HQ has no metrics and offers no
// commands, only the disconnect button.
func (g *Game) drawNexusModal(screen *ebiten.Image) {
	ma := g.mapArea()
	vector.FillRect(screen, float32(ma.x), float32(ma.y), float32(ma.w), float32(ma.h), color.RGBA{A: 140}, false)

	r := g.modalRect()
	drawPanelFrame(screen, r, colMagenta)
	cx := r.x + r.w/2
	drawTextCentered(screen, "THE NEXUS", g.fonts.boldFace(fontTitle), cx, r.y+36, colMagenta)
	drawTextCentered(screen, "CENTRAL GRID AUTHORITY", g.fonts.monoFace(fontSmall), cx, r.y+64, colDim)

	body := g.fonts.monoFace(fontBody)
	store := g.sess.Store
	lines := []string{
		fmt.Sprintf("districts online   %d", store.Len()),
		fmt.Sprintf("grid stability     %.1f%%", store.AverageStability()),
		fmt.Sprintf("transmissions      %d", g.sess.Log.Len()),
		fmt.Sprintf("uplink tick        %d", g.sess.Updater.Tick()),
	}
	y := r.y + 92
	for _, l := range lines {
		drawText(screen, l, body, r.x+70, y, colText)
		y += panelLineH
	}
}
