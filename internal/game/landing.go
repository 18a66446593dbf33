package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawLanding renders the title screen shown until the operator starts the
// session. The start button itself comes from buttons().
func (g *Game) drawLanding(screen *ebiten.Image) {
	screen.Fill(colBackground)
	w, h := float32(g.width), float32(g.height)

	// Scrolling horizon lines.
	off := float32(g.frame%40) / 40
	for i := 0; i < 14; i++ {
		t := (float32(i) + off) / 14
		y := h*0.55 + t*t*h*0.45
		vector.StrokeLine(screen, 0, y, w, y, 1, color.RGBA{R: 120, G: 0, B: 160, A: uint8(40 + 140*t)}, false)
	}
	for i := -10; i <= 10; i++ {
		x0 := w/2 + float32(i)*20
		x1 := w/2 + float32(i)*w/10
		vector.StrokeLine(screen, x0, h*0.55, x1, h, 1, color.RGBA{R: 120, G: 0, B: 160, A: 90}, false)
	}

	cx, cy := float64(g.width)/2, float64(g.height)/2
	glow := 0.6 + 0.4*math.Sin(float64(g.frame)*0.05)
	drawTextCentered(screen, "NEON GRID", g.fonts.boldFace(fontHero), cx+3, cy-80+3,
		color.RGBA{R: 0, G: 120, B: 140, A: uint8(180 * glow)})
	drawTextCentered(screen, "NEON GRID", g.fonts.boldFace(fontHero), cx, cy-80, colMagenta)
	drawTextCentered(screen, "MUNICIPAL POWER GRID CONTROL // SECTOR 7", g.fonts.monoFace(fontBody), cx, cy-20, colCyan)
	drawTextCentered(screen, "press ENTER or click to establish uplink", g.fonts.monoFace(fontSmall), cx, cy+110, colDim)
}
