package city

import (
	"math"
	"time"
)

// Camera limits and tuning.
const (
	// CanvasSize is the edge length of the logical map in map units.
	CanvasSize = 400.0

	MinScale = 0.4
	MaxScale = 8.0

	// DefaultWheelSensitivity converts a wheel delta (pixels, positive = away from
	// the user) into a zoom factor: factor = 1 - delta*sensitivity.
	DefaultWheelSensitivity = 0.002

	// ZoomStep is the scale change applied by the zoom buttons.
	ZoomStep = 0.5

	// TransitionDuration is how long programmatic camera moves take to settle.
	TransitionDuration = 700 * time.Millisecond
)

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Transform is the camera: content is scaled about its centre, then translated.
// A content point p (relative to the content centre) lands at
// viewportCentre + Position + p*Scale.
type Transform struct {
	Scale    float64
	Position Vec2
}

// IdentityTransform is the reset camera.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Apply maps a content-centred point to an offset from the viewport centre.
func (t Transform) Apply(p Vec2) Vec2 {
	return t.Position.Add(p.Scale(t.Scale))
}

// Invert maps an offset from the viewport centre back to a content-centred point.
func (t Transform) Invert(q Vec2) Vec2 {
	return q.Sub(t.Position).Scale(1 / t.Scale)
}

func lerpTransform(a, b Transform, t float64) Transform {
	return Transform{
		Scale: a.Scale + (b.Scale-a.Scale)*t,
		Position: Vec2{
			X: a.Position.X + (b.Position.X-a.Position.X)*t,
			Y: a.Position.Y + (b.Position.Y-a.Position.Y)*t,
		},
	}
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return MinScale
	}
	return clamp(s, MinScale, MaxScale)
}

// easeOutCubic provides smooth easing for camera transitions.
func easeOutCubic(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return 1 - math.Pow(1-t, 3)
}

// CameraTarget is the slice of the viewport the router needs.
type CameraTarget interface {
	CenterOn(x, y, zoom float64)
}

// transition is an in-flight eased move from `from` to the viewport's live transform.
type transition struct {
	active  bool
	from    Transform
	elapsed time.Duration
}

// Viewport owns the pan/zoom camera. It never reads district data.
//
// Two tiers of state: live is mutated directly by every gesture (including each
// drag move) and is what gets rendered; committed is the published copy and only
// catches up at gesture boundaries (wheel, drag end, programmatic moves). Keeping
// them separate lets observers skip per-move churn; reading live everywhere would
// also be correct.
type Viewport struct {
	width, height float64
	sensitivity   float64

	live      Transform
	committed Transform
	anim      transition

	dragging bool
	last     Vec2
}

// NewViewport creates an unmounted viewport at the identity transform.
func NewViewport(wheelSensitivity float64) *Viewport {
	if wheelSensitivity <= 0 {
		wheelSensitivity = DefaultWheelSensitivity
	}
	return &Viewport{
		sensitivity: wheelSensitivity,
		live:        IdentityTransform(),
		committed:   IdentityTransform(),
	}
}

// SetSize mounts (or resizes) the viewport. A zero or negative size unmounts it.
func (v *Viewport) SetSize(width, height float64) {
	v.width = width
	v.height = height
}

// Mounted reports whether the viewport has a usable size. Every camera operation
// is a silent no-op until it does.
func (v *Viewport) Mounted() bool {
	return v.width > 0 && v.height > 0
}

// Size returns the viewport dimensions in screen pixels.
func (v *Viewport) Size() (float64, float64) {
	return v.width, v.height
}

func (v *Viewport) center() Vec2 {
	return Vec2{v.width / 2, v.height / 2}
}

// Current is the transform to render this frame, including any in-flight easing.
func (v *Viewport) Current() Transform {
	if !v.anim.active {
		return v.live
	}
	t := easeOutCubic(float64(v.anim.elapsed) / float64(TransitionDuration))
	return lerpTransform(v.anim.from, v.live, t)
}

// Target is where the camera is, or is heading to.
func (v *Viewport) Target() Transform {
	return v.live
}

// Committed is the last published transform.
func (v *Viewport) Committed() Transform {
	return v.committed
}

// Animating reports whether an eased transition is in flight.
func (v *Viewport) Animating() bool {
	return v.anim.active
}

// Dragging reports whether a pan gesture is active.
func (v *Viewport) Dragging() bool {
	return v.dragging
}

// Advance progresses the eased transition by dt.
func (v *Viewport) Advance(dt time.Duration) {
	if !v.anim.active || dt <= 0 {
		return
	}
	v.anim.elapsed += dt
	if v.anim.elapsed >= TransitionDuration {
		v.anim = transition{}
	}
}

// Zoom scales about the pointer (viewport pixel coordinates, origin top-left) so the
// content point under it stays put. Applied immediately, without easing.
func (v *Viewport) Zoom(pointer Vec2, wheelDelta float64) {
	if !v.Mounted() || wheelDelta == 0 {
		return
	}
	p := pointer.Sub(v.center())
	factor := 1 - wheelDelta*v.sensitivity
	oldScale := v.live.Scale
	newScale := clampScale(oldScale * factor)
	ratio := newScale / oldScale

	v.anim = transition{}
	v.live = Transform{
		Scale:    newScale,
		Position: p.Sub(p.Sub(v.live.Position).Scale(ratio)),
	}
	v.committed = v.live
}

// BeginDrag starts a pan at pos. The caller filters for the primary button.
func (v *Viewport) BeginDrag(pos Vec2) {
	if !v.Mounted() {
		return
	}
	v.dragging = true
	v.last = pos
}

// DragTo pans by the pointer delta since the previous call. Only the live
// transform moves; Committed is untouched until EndDrag.
func (v *Viewport) DragTo(pos Vec2) {
	if !v.dragging || !v.Mounted() {
		return
	}
	delta := pos.Sub(v.last)
	v.last = pos
	if delta == (Vec2{}) {
		return
	}
	v.anim = transition{}
	v.live.Position = v.live.Position.Add(delta)
}

// EndDrag finishes a pan and publishes the final position.
func (v *Viewport) EndDrag() {
	if !v.dragging {
		return
	}
	v.dragging = false
	v.committed = v.live
}

// CenterOn eases to a normalised map coordinate in [-0.5, 0.5] at the given zoom.
func (v *Viewport) CenterOn(x, y, zoom float64) {
	if !v.Mounted() {
		return
	}
	scale := clampScale(zoom)
	v.startTransition(Transform{
		Scale:    scale,
		Position: Vec2{X: -x * CanvasSize * scale, Y: -y * CanvasSize * scale},
	})
}

// Reset eases back to scale 1 at the origin.
func (v *Viewport) Reset() {
	if !v.Mounted() {
		return
	}
	v.startTransition(IdentityTransform())
}

// ZoomIn steps the scale up by ZoomStep, keeping the current position.
func (v *Viewport) ZoomIn() {
	v.stepZoom(ZoomStep)
}

// ZoomOut steps the scale down by ZoomStep, keeping the current position.
func (v *Viewport) ZoomOut() {
	v.stepZoom(-ZoomStep)
}

func (v *Viewport) stepZoom(step float64) {
	if !v.Mounted() {
		return
	}
	to := v.live
	to.Scale = clampScale(to.Scale + step)
	v.startTransition(to)
}

func (v *Viewport) startTransition(to Transform) {
	from := v.Current()
	v.live = to
	v.committed = to
	v.anim = transition{active: true, from: from}
}

// --- Coordinate mapping ---

// ScreenToContent maps a viewport pixel to a content-centred point using the
// rendered transform. Returns false while unmounted.
func (v *Viewport) ScreenToContent(screen Vec2) (Vec2, bool) {
	if !v.Mounted() {
		return Vec2{}, false
	}
	return v.Current().Invert(screen.Sub(v.center())), true
}

// ContentToScreen maps a content-centred point to a viewport pixel.
func (v *Viewport) ContentToScreen(p Vec2) (Vec2, bool) {
	if !v.Mounted() {
		return Vec2{}, false
	}
	return v.center().Add(v.Current().Apply(p)), true
}
