package game

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

// noticeFrames is how long a status notice stays on screen.
const noticeFrames = 180

// Options configures a Game.
type Options struct {
	Session *city.Session // required
	Width   int
	Height  int
	TPS     int
	Seed    int64 // scenery layout
	Logger  *slog.Logger
}

// Game adapts a city.Session to ebiten. It owns no simulation state; every
// frame it routes input into the session, advances it by one tick and draws.
type Game struct {
	width  int
	height int

	sess  *city.Session
	fonts *fontSet
	decor *cityDecor
	log   *slog.Logger
	loc   *time.Location
	copy  func(string) error

	frame    int
	frameDur time.Duration

	notice      string
	noticeTimer int

	// Lazily created in Draw so New does no GPU work.
	gridBuf   *ebiten.Image
	staticBuf *ebiten.Image
	worldBuf  *ebiten.Image
	mapLayer  *ebiten.Image

	// Pointer state for the map: a press becomes a pan once it travels past
	// clickSlop, otherwise its release is a click.
	pressed bool
	panning bool
	pressAt city.Vec2

	debug bool
}

// New builds a Game around an existing session. The session is not started;
// the landing screen does that.
func New(opts Options) (*Game, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("game: session is required")
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tps := opts.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = 1280, 800
	}
	g := &Game{
		width:    w,
		height:   h,
		sess:     opts.Session,
		fonts:    fonts,
		decor:    buildDecor(opts.Seed),
		log:      logger.With("component", "game"),
		loc:      time.Local,
		copy:     writeClipboard,
		frameDur: time.Second / time.Duration(tps),
	}
	g.resize(w, h)
	return g, nil
}

// Session exposes the wrapped session.
func (g *Game) Session() *city.Session {
	return g.sess
}

func (g *Game) resize(w, h int) {
	g.width, g.height = w, h
	ma := g.mapArea()
	g.sess.Viewport.SetSize(ma.w, ma.h)
}

func (g *Game) start() {
	if g.sess.Started() {
		return
	}
	g.sess.Start()
	g.setNotice("uplink established")
}

// issue sends cmd against the current selection.
func (g *Game) issue(kind city.CommandKind) {
	id, ok := g.sess.Router.Selected()
	if !ok {
		return
	}
	ch, ok := g.sess.Router.Issue(city.Command{Kind: kind, District: id})
	if !ok {
		return
	}
	g.setNotice(fmt.Sprintf("%s %s → %s", kind, id, ch.After))
}

func (g *Game) setNotice(s string) {
	g.notice = s
	g.noticeTimer = noticeFrames
}

// selectIndex focuses the i-th district in map order.
func (g *Game) selectIndex(i int) {
	ids := city.DistrictIDs()
	if i < 0 || i >= len(ids) {
		return
	}
	g.sess.Router.Select(ids[i])
}

// mapBlocked reports whether the map ignores pointer input: before start,
// while paused, or while the HQ modal is open.
func (g *Game) mapBlocked() bool {
	if !g.sess.Started() || g.sess.Paused() {
		return true
	}
	id, ok := g.sess.Router.Selected()
	return ok && id == city.HQ
}

// overPanel reports whether a screen point lies over the district panel.
func (g *Game) overPanel(x, y float64) bool {
	id, ok := g.sess.Router.Selected()
	return ok && id.IsDistrict() && g.panelRect().contains(x, y)
}

// handleMapClick resolves a click in map-area coordinates to a region and
// selects it. Clicks on empty space do nothing.
func (g *Game) handleMapClick(local city.Vec2) {
	p, ok := g.sess.Viewport.ScreenToContent(local)
	if !ok {
		return
	}
	m := city.ContentToMap(p)
	id, ok := city.RegionAt(m.X, m.Y)
	if !ok {
		return
	}
	g.sess.Router.Select(id)
}

func (g *Game) Update() error {
	g.frame++
	if g.noticeTimer > 0 {
		g.noticeTimer--
		if g.noticeTimer == 0 {
			g.notice = ""
		}
	}

	g.handleKeys()
	mx, my := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	g.handlePointer(float64(mx), float64(my),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		wy)

	g.sess.Advance(g.frameDur)
	g.decor.step()
	return nil
}

func (g *Game) handleKeys() {
	pressed := inpututil.IsKeyJustPressed
	if pressed(ebiten.KeyBackquote) {
		g.debug = !g.debug
	}
	if !g.sess.Started() {
		if pressed(ebiten.KeyEnter) || pressed(ebiten.KeySpace) {
			g.start()
		}
		return
	}

	if pressed(ebiten.KeyP) || pressed(ebiten.KeySpace) {
		g.sess.TogglePause()
	}
	if pressed(ebiten.KeyC) {
		g.copyLatest()
	}
	if pressed(ebiten.KeyF) {
		g.copyReport()
	}
	if g.sess.Paused() {
		return
	}

	switch {
	case pressed(ebiten.KeyEscape):
		g.sess.Router.Deselect()
	case pressed(ebiten.KeyR):
		g.sess.Viewport.Reset()
	case pressed(ebiten.KeyEqual), pressed(ebiten.KeyNumpadAdd):
		g.sess.Viewport.ZoomIn()
	case pressed(ebiten.KeyMinus), pressed(ebiten.KeyNumpadSubtract):
		g.sess.Viewport.ZoomOut()
	case pressed(ebiten.KeyH):
		g.sess.Router.Select(city.HQ)
	}
	for i, k := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if pressed(k) {
			g.selectIndex(i)
		}
	}
}

// handlePointer routes one frame of primary-button and wheel input. Buttons
// win over the map; the map only sees presses that start inside it.
func (g *Game) handlePointer(mx, my float64, down, held, up bool, wheel float64) {
	ma := g.mapArea()
	local := city.Vec2{X: mx - ma.x, Y: my - ma.y}

	if down {
		if id, ok := hitButton(g.buttons(), mx, my); ok {
			g.activate(id)
			return
		}
		if !g.sess.Started() {
			g.start()
			return
		}
		if !g.mapBlocked() && !g.overPanel(mx, my) && ma.contains(mx, my) {
			g.pressed = true
			g.panning = false
			g.pressAt = local
			g.sess.Viewport.BeginDrag(local)
		}
	}

	if g.pressed {
		if held && !g.panning {
			d := local.Sub(g.pressAt)
			g.panning = math.Hypot(d.X, d.Y) > clickSlop
		}
		if held && g.panning {
			g.sess.Viewport.DragTo(local)
		}
		if up || !held {
			g.sess.Viewport.EndDrag()
			if !g.panning {
				g.handleMapClick(local)
			}
			g.pressed = false
			g.panning = false
		}
	}

	if wheel != 0 && !g.mapBlocked() && !g.overPanel(mx, my) && ma.contains(mx, my) {
		g.sess.Viewport.Zoom(local, -wheel*wheelPixelsPerNotch)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	bs := g.buttons()

	if !g.sess.Started() {
		g.drawLanding(screen)
		g.drawButtons(screen, bs, float64(mx), float64(my))
		return
	}

	screen.Fill(colBackground)
	g.drawMap(screen)
	g.drawHUD(screen)
	g.drawLogPanel(screen)
	g.drawMapControls(screen)

	if id, ok := g.sess.Router.Selected(); ok {
		if id == city.HQ {
			g.drawNexusModal(screen)
		} else {
			g.drawControlPanel(screen, id)
		}
	}
	if g.sess.Paused() {
		g.drawPauseOverlay(screen)
	}
	g.drawButtons(screen, bs, float64(mx), float64(my))

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f  tick %d  t=%s",
			ebiten.ActualTPS(), ebiten.ActualFPS(), g.sess.Updater.Tick(), g.sess.Elapsed().Truncate(time.Millisecond)),
			8, hudHeight+6)
	}
}

// drawMap composites the grid and world layers through the rendered camera
// transform and blits the result below the HUD.
func (g *Game) drawMap(screen *ebiten.Image) {
	ma := g.mapArea()
	if ma.w < 1 || ma.h < 1 {
		return
	}
	if g.gridBuf == nil {
		g.gridBuf = ebiten.NewImage(gridExtent, gridExtent)
		renderGrid(g.gridBuf)
		g.staticBuf = ebiten.NewImage(contentSize, contentSize)
		g.decor.renderStatic(g.staticBuf)
		g.worldBuf = ebiten.NewImage(contentSize, contentSize)
	}
	if g.mapLayer == nil || g.mapLayer.Bounds().Dx() != int(ma.w) || g.mapLayer.Bounds().Dy() != int(ma.h) {
		if g.mapLayer != nil {
			g.mapLayer.Deallocate()
		}
		g.mapLayer = ebiten.NewImage(int(ma.w), int(ma.h))
	}

	g.renderMap(g.worldBuf)

	t := g.sess.Viewport.Current()
	g.mapLayer.Fill(colBackground)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = cameraGeoM(t, gridExtent, gridExtent, ma.w, ma.h)
	op.Filter = ebiten.FilterLinear
	g.mapLayer.DrawImage(g.gridBuf, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM = cameraGeoM(t, contentSize, contentSize, ma.w, ma.h)
	op.Filter = ebiten.FilterLinear
	g.mapLayer.DrawImage(g.worldBuf, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ma.x, ma.y)
	screen.DrawImage(g.mapLayer, op)
}

func (g *Game) drawPauseOverlay(screen *ebiten.Image) {
	ma := g.mapArea()
	drawPanelFrame(screen, rectF{x: ma.x + ma.w/2 - 170, y: ma.y + ma.h/2 - 70, w: 340, h: 150}, colAmber)
	drawTextCentered(screen, "SIMULATION PAUSED", g.fonts.boldFace(fontTitle), ma.x+ma.w/2, ma.y+ma.h/2-30, colAmber)
}

// Layout tracks the window size; the map area follows it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}
