package game

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

// Map content is rendered at city.MapPixelsPerUnit, so the 400-unit canvas is
// an 800px image whose centre is the content origin the viewport scales about.
const (
	contentSize = int(city.CanvasSize * city.MapPixelsPerUnit)
	gridExtent  = 3 * contentSize
	gridSpacing = 40

	blockPitch = 24.0 // map units between street centrelines
	litScale   = 60.0 // map units per simplex noise period
	rainDrops  = 180
	mistCount  = 10
)

// districtNeon is each district's signature colour.
var districtNeon = map[city.RegionID]color.RGBA{
	city.AmberHaze:   {R: 255, G: 170, B: 30, A: 255},
	city.VioletSky:   {R: 170, G: 80, B: 255, A: 255},
	city.RedLight:    {R: 255, G: 40, B: 120, A: 255},
	city.EmeraldPark: {R: 40, G: 230, B: 140, A: 255},
}

// building is one decorative block, in map units.
type building struct {
	district   city.RegionID
	x, y, w, h float64
	lit        float64 // window brightness, 0..1
}

type raindrop struct {
	x, y, speed, length float64
}

type mistPatch struct {
	x, y, r, drift float64
}

// cityDecor is the seeded, purely decorative scenery. It never reads district
// metrics; status only changes the tint applied on top.
type cityDecor struct {
	buildings []building
	rain      []raindrop
	mist      []mistPatch
}

// buildDecor lays out buildings on a street grid inside each district quadrant,
// keeping clear of the HQ plaza. Window brightness follows a simplex field so
// neighbouring blocks glow together.
func buildDecor(seed int64) *cityDecor {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- scenery only
	glow := opensimplex.NewNormalized(seed)
	d := &cityDecor{}
	const c = city.CanvasSize / 2

	for _, id := range city.DistrictIDs() {
		b, _ := city.DistrictBounds(id)
		for y := b.Y0 + 4; y+blockPitch <= b.Y1; y += blockPitch {
			for x := b.X0 + 4; x+blockPitch <= b.X1; x += blockPitch {
				if rng.Float64() < 0.18 {
					continue // empty lot
				}
				w := 8 + rng.Float64()*(blockPitch-12)
				h := 8 + rng.Float64()*(blockPitch-12)
				bx := x + rng.Float64()*(blockPitch-4-w)
				by := y + rng.Float64()*(blockPitch-4-h)
				cx, cy := bx+w/2, by+h/2
				if math.Abs(cx-c)+math.Abs(cy-c) < city.HQRadius+blockPitch {
					continue
				}
				d.buildings = append(d.buildings, building{
					district: id,
					x:        bx, y: by, w: w, h: h,
					lit: litLevel(glow, cx, cy),
				})
			}
		}
	}

	for i := 0; i < rainDrops; i++ {
		d.rain = append(d.rain, raindrop{
			x:      rng.Float64() * city.CanvasSize,
			y:      rng.Float64() * city.CanvasSize,
			speed:  2 + rng.Float64()*3,
			length: 4 + rng.Float64()*6,
		})
	}
	for i := 0; i < mistCount; i++ {
		d.mist = append(d.mist, mistPatch{
			x:     rng.Float64() * city.CanvasSize,
			y:     rng.Float64() * city.CanvasSize,
			r:     30 + rng.Float64()*50,
			drift: 0.05 + rng.Float64()*0.15,
		})
	}
	return d
}

// litLevel maps the noise field at a block centre to a brightness in [0.3, 1].
func litLevel(n opensimplex.Noise, x, y float64) float64 {
	v := n.Eval2(x/litScale, y/litScale)
	return 0.3 + 0.7*math.Max(0, math.Min(1, v))
}

// step advances the animated scenery by one frame.
func (d *cityDecor) step() {
	for i := range d.rain {
		r := &d.rain[i]
		r.y += r.speed
		r.x -= r.speed * 0.25
		if r.y > city.CanvasSize {
			r.y -= city.CanvasSize
		}
		if r.x < 0 {
			r.x += city.CanvasSize
		}
	}
	for i := range d.mist {
		m := &d.mist[i]
		m.x += m.drift
		if m.x-m.r > city.CanvasSize {
			m.x = -m.r
		}
	}
}

// statusTint is the wash laid over a district's quadrant. CRITICAL pulses with
// the frame counter.
func statusTint(id city.RegionID, s city.Status, frame int) color.RGBA {
	switch s {
	case city.StatusCritical:
		pulse := 0.5 + 0.5*math.Sin(float64(frame)*0.12)
		return color.RGBA{R: 140, G: 0, B: 30, A: uint8(40 + 50*pulse)}
	case city.StatusWarning:
		return color.RGBA{R: 110, G: 70, B: 0, A: 45}
	default:
		n := districtNeon[id]
		return color.RGBA{R: n.R / 6, G: n.G / 6, B: n.B / 6, A: 30}
	}
}

// px converts map units to content pixels.
func px(v float64) float32 {
	return float32(v * city.MapPixelsPerUnit)
}

// renderGrid draws the background grid layer once. It is larger than the map so
// panning never reveals an edge at moderate zoom.
func renderGrid(dst *ebiten.Image) {
	dst.Fill(colBackground)
	minor := color.RGBA{R: 20, G: 16, B: 44, A: 255}
	major := color.RGBA{R: 34, G: 26, B: 70, A: 255}
	n := gridExtent / gridSpacing
	for i := 0; i <= n; i++ {
		c := minor
		if i%5 == 0 {
			c = major
		}
		p := float32(i * gridSpacing)
		vector.StrokeLine(dst, p, 0, p, float32(gridExtent), 1, c, false)
		vector.StrokeLine(dst, 0, p, float32(gridExtent), p, 1, c, false)
	}
}

// renderStatic draws the parts of the map that never change: streets and
// building bodies.
func (d *cityDecor) renderStatic(dst *ebiten.Image) {
	street := color.RGBA{R: 28, G: 24, B: 48, A: 255}
	for v := 0.0; v <= city.CanvasSize; v += blockPitch {
		vector.StrokeLine(dst, px(v+2), 0, px(v+2), px(city.CanvasSize), 2, street, false)
		vector.StrokeLine(dst, 0, px(v+2), px(city.CanvasSize), px(v+2), 2, street, false)
	}
	for _, b := range d.buildings {
		neon := districtNeon[b.district]
		body := color.RGBA{R: 14 + neon.R/20, G: 12 + neon.G/20, B: 26 + neon.B/20, A: 255}
		vector.FillRect(dst, px(b.x), px(b.y), px(b.w), px(b.h), body, false)
		edge := color.RGBA{R: neon.R, G: neon.G, B: neon.B, A: uint8(90 + 120*b.lit)}
		vector.StrokeRect(dst, px(b.x), px(b.y), px(b.w), px(b.h), 1, edge, false)
		// Window lights on a 4-unit lattice.
		win := color.RGBA{R: neon.R, G: neon.G, B: neon.B, A: uint8(60 * b.lit)}
		for wy := b.y + 2; wy < b.y+b.h-2; wy += 4 {
			for wx := b.x + 2; wx < b.x+b.w-2; wx += 4 {
				vector.FillRect(dst, px(wx), px(wy), 2, 2, win, false)
			}
		}
	}
}

// renderMap draws one frame of map content: status washes, the static layer,
// HQ, selection, then weather on top.
func (g *Game) renderMap(dst *ebiten.Image) {
	dst.Clear()

	for _, d := range g.sess.Store.Districts() {
		b, ok := city.DistrictBounds(d.ID)
		if !ok {
			continue
		}
		vector.FillRect(dst, px(b.X0), px(b.Y0), px(b.X1-b.X0), px(b.Y1-b.Y0), statusTint(d.ID, d.Status, g.frame), false)
	}

	dst.DrawImage(g.staticBuf, nil)

	// District borders.
	const c = city.CanvasSize / 2
	border := color.RGBA{R: 0, G: 240, B: 255, A: 90}
	vector.StrokeLine(dst, px(c), 0, px(c), px(city.CanvasSize), 2, border, false)
	vector.StrokeLine(dst, 0, px(c), px(city.CanvasSize), px(c), 2, border, false)
	vector.StrokeRect(dst, 0, 0, px(city.CanvasSize), px(city.CanvasSize), 3, border, false)

	// District labels.
	label := g.fonts.boldFace(fontLabel)
	for _, d := range g.sess.Store.Districts() {
		b, _ := city.DistrictBounds(d.ID)
		drawText(dst, d.Name, label, float64(px(b.X0+6)), float64(px(b.Y0+5)), districtNeon[d.ID])
		drawText(dst, string(d.ID)+"  "+d.Status.String(), g.fonts.monoFace(fontSmall),
			float64(px(b.X0+6)), float64(px(b.Y0+15)), statusColor(d.Status))
	}

	g.renderHQ(dst)

	if id, ok := g.sess.Router.Selected(); ok && id.IsDistrict() {
		b, _ := city.DistrictBounds(id)
		vector.StrokeRect(dst, px(b.X0)+3, px(b.Y0)+3, px(b.X1-b.X0)-6, px(b.Y1-b.Y0)-6, 3, colCyan, false)
	}

	for _, m := range g.decor.mist {
		vector.FillCircle(dst, px(m.x), px(m.y), px(m.r), color.RGBA{R: 60, G: 40, B: 110, A: 14}, true)
	}
	rain := color.RGBA{R: 120, G: 180, B: 255, A: 70}
	for _, r := range g.decor.rain {
		vector.StrokeLine(dst, px(r.x), px(r.y), px(r.x-r.length*0.25), px(r.y+r.length), 1, rain, false)
	}
}

// renderHQ draws the central plaza as a glowing diamond.
func (g *Game) renderHQ(dst *ebiten.Image) {
	pts := city.HQDiamond()
	var path vector.Path
	path.MoveTo(px(pts[0].X), px(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(px(p.X), px(p.Y))
	}
	path.Close()

	fill := &vector.DrawPathOptions{AntiAlias: true}
	fill.ColorScale.ScaleWithColor(color.RGBA{R: 40, G: 0, B: 60, A: 230})
	vector.FillPath(dst, &path, &vector.FillOptions{}, fill)

	pulse := 0.5 + 0.5*math.Sin(float64(g.frame)*0.05)
	edge := colMagenta
	if id, ok := g.sess.Router.Selected(); ok && id == city.HQ {
		edge = colCyan
	}
	stroke := &vector.DrawPathOptions{AntiAlias: true}
	stroke.ColorScale.ScaleWithColor(edge)
	vector.StrokePath(dst, &path, &vector.StrokeOptions{Width: 3}, stroke)

	const c = city.CanvasSize / 2
	glow := color.RGBA{R: 255, G: 0, B: 200, A: uint8(20 + 40*pulse)}
	vector.FillCircle(dst, px(c), px(c), px(city.HQRadius*1.6), glow, true)
	drawTextCentered(dst, "HQ", g.fonts.boldFace(fontLabel), float64(px(c)), float64(px(c)), colText)
}

// cameraGeoM places a content image of size w×h into a viewport so that its
// centre lands at viewportCentre + position, scaled by the transform.
func cameraGeoM(t city.Transform, w, h, vpW, vpH float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-w/2, -h/2)
	m.Scale(t.Scale, t.Scale)
	m.Translate(vpW/2+t.Position.X, vpH/2+t.Position.Y)
	return m
}
