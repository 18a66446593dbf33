package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

// Screen layout.
const (
	hudHeight     = 44
	logPanelWidth = 300
	panelWidth    = 270
	panelHeight   = 330
	modalWidth    = 420
	modalHeight   = 260
	btnHeight     = 28
	margin        = 12

	// wheelPixelsPerNotch converts ebiten wheel notches into the pixel deltas
	// the viewport sensitivity is tuned for.
	wheelPixelsPerNotch = 50.0

	// clickSlop is how far the pointer may travel between press and release
	// and still count as a click rather than a pan.
	clickSlop = 4.0
)

// Neon palette.
var (
	colBackground = color.RGBA{R: 6, G: 4, B: 14, A: 255}
	colPanel      = color.RGBA{R: 12, G: 10, B: 26, A: 235}
	colPanelEdge  = color.RGBA{R: 0, G: 240, B: 255, A: 160}
	colText       = color.RGBA{R: 210, G: 230, B: 255, A: 255}
	colDim        = color.RGBA{R: 120, G: 130, B: 170, A: 255}
	colCyan       = color.RGBA{R: 0, G: 240, B: 255, A: 255}
	colMagenta    = color.RGBA{R: 255, G: 0, B: 200, A: 255}
	colAmber      = color.RGBA{R: 255, G: 176, B: 0, A: 255}
	colRed        = color.RGBA{R: 255, G: 40, B: 80, A: 255}
	colGreen      = color.RGBA{R: 60, G: 255, B: 140, A: 255}
)

// statusColor is the badge colour for a district status.
func statusColor(s city.Status) color.RGBA {
	switch s {
	case city.StatusCritical:
		return colRed
	case city.StatusWarning:
		return colAmber
	default:
		return colGreen
	}
}

// --- Buttons ---

type rectF struct {
	x, y, w, h float64
}

func (r rectF) contains(x, y float64) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type buttonID int

const (
	btnStart buttonID = iota
	btnPause
	btnZoomIn
	btnZoomOut
	btnResetView
	btnFlush
	btnReroute
	btnClosePanel
	btnDisconnect
	btnResume
)

type button struct {
	id     buttonID
	label  string
	r      rectF
	accent color.RGBA
}

// hitButton returns the topmost button under (x, y). Later buttons draw on top.
func hitButton(bs []button, x, y float64) (buttonID, bool) {
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i].r.contains(x, y) {
			return bs[i].id, true
		}
	}
	return 0, false
}

// mapArea is the screen rectangle the viewport occupies.
func (g *Game) mapArea() rectF {
	w := float64(g.width - logPanelWidth)
	h := float64(g.height - hudHeight)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return rectF{x: 0, y: hudHeight, w: w, h: h}
}

func (g *Game) panelRect() rectF {
	ma := g.mapArea()
	return rectF{x: ma.x + ma.w - panelWidth - margin, y: ma.y + margin, w: panelWidth, h: panelHeight}
}

func (g *Game) modalRect() rectF {
	ma := g.mapArea()
	return rectF{x: ma.x + (ma.w-modalWidth)/2, y: ma.y + (ma.h-modalHeight)/2, w: modalWidth, h: modalHeight}
}

// buttons lists every clickable control for the current screen state, in draw
// order. Update and Draw both derive from it so hit boxes match what is shown.
func (g *Game) buttons() []button {
	if !g.sess.Started() {
		return []button{{
			id:     btnStart,
			label:  "INITIALIZE UPLINK",
			r:      rectF{x: float64(g.width)/2 - 130, y: float64(g.height)/2 + 40, w: 260, h: 44},
			accent: colCyan,
		}}
	}

	pauseLabel := "PAUSE"
	if g.sess.Paused() {
		pauseLabel = "RESUME"
	}
	ma := g.mapArea()
	by := ma.y + ma.h - btnHeight - margin
	bs := []button{
		{id: btnPause, label: pauseLabel, r: rectF{x: 160, y: 8, w: 90, h: btnHeight}, accent: colMagenta},
		{id: btnZoomIn, label: "+", r: rectF{x: ma.x + margin, y: by, w: btnHeight, h: btnHeight}, accent: colCyan},
		{id: btnZoomOut, label: "-", r: rectF{x: ma.x + margin + btnHeight + 6, y: by, w: btnHeight, h: btnHeight}, accent: colCyan},
		{id: btnResetView, label: "RESET VIEW", r: rectF{x: ma.x + margin + 2*(btnHeight+6), y: by, w: 100, h: btnHeight}, accent: colCyan},
	}

	if id, ok := g.sess.Router.Selected(); ok {
		if id == city.HQ {
			m := g.modalRect()
			bs = append(bs, button{
				id: btnDisconnect, label: "DISCONNECT",
				r:      rectF{x: m.x + (m.w-160)/2, y: m.y + m.h - btnHeight - 16, w: 160, h: btnHeight},
				accent: colMagenta,
			})
		} else {
			p := g.panelRect()
			bw := p.w - 2*margin
			bs = append(bs,
				button{id: btnClosePanel, label: "X", r: rectF{x: p.x + p.w - 28, y: p.y + 6, w: 22, h: 22}, accent: colDim},
				button{id: btnFlush, label: "FLUSH COOLANT", r: rectF{x: p.x + margin, y: p.y + p.h - 2*(btnHeight+8), w: bw, h: btnHeight}, accent: colCyan},
				button{id: btnReroute, label: "REROUTE POWER", r: rectF{x: p.x + margin, y: p.y + p.h - (btnHeight + 8), w: bw, h: btnHeight}, accent: colAmber},
			)
		}
	}

	if g.sess.Paused() {
		bs = append(bs, button{
			id: btnResume, label: "RESUME SIMULATION",
			r:      rectF{x: ma.x + ma.w/2 - 120, y: ma.y + ma.h/2 + 20, w: 240, h: 40},
			accent: colGreen,
		})
	}
	return bs
}

// activate performs the action behind a button.
func (g *Game) activate(id buttonID) {
	switch id {
	case btnStart:
		g.start()
	case btnPause, btnResume:
		g.sess.TogglePause()
	case btnZoomIn:
		g.sess.Viewport.ZoomIn()
	case btnZoomOut:
		g.sess.Viewport.ZoomOut()
	case btnResetView:
		g.sess.Viewport.Reset()
	case btnFlush:
		g.issue(city.CmdFlushCoolant)
	case btnReroute:
		g.issue(city.CmdReroutePower)
	case btnClosePanel, btnDisconnect:
		g.sess.Router.Deselect()
	}
}

func (g *Game) drawButtons(screen *ebiten.Image, bs []button, mx, my float64) {
	face := g.fonts.boldFace(fontBody)
	for _, b := range bs {
		hover := b.r.contains(mx, my)
		fill := color.RGBA{R: b.accent.R / 8, G: b.accent.G / 8, B: b.accent.B / 8, A: 220}
		if hover {
			fill = color.RGBA{R: b.accent.R / 3, G: b.accent.G / 3, B: b.accent.B / 3, A: 240}
		}
		x, y, w, h := float32(b.r.x), float32(b.r.y), float32(b.r.w), float32(b.r.h)
		vector.FillRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1.5, b.accent, false)
		drawTextCentered(screen, b.label, face, b.r.x+b.r.w/2, b.r.y+b.r.h/2, colText)
	}
}

// drawPanelFrame draws the standard translucent panel with a neon edge.
func drawPanelFrame(screen *ebiten.Image, r rectF, edge color.RGBA) {
	x, y, w, h := float32(r.x), float32(r.y), float32(r.w), float32(r.h)
	vector.FillRect(screen, x, y, w, h, colPanel, false)
	vector.StrokeRect(screen, x, y, w, h, 1.5, edge, false)
	vector.StrokeLine(screen, x+2, y+2, x+w-2, y+2, 1, color.RGBA{R: edge.R, G: edge.G, B: edge.B, A: 60}, false)
}

// drawBar draws a labelled horizontal gauge filled to value/max.
func drawBar(screen *ebiten.Image, r rectF, value, max float64, fill color.RGBA) {
	frac := value / max
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	x, y, w, h := float32(r.x), float32(r.y), float32(r.w), float32(r.h)
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 30, G: 30, B: 50, A: 255}, false)
	vector.FillRect(screen, x, y, w*float32(frac), h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, colDim, false)
}
