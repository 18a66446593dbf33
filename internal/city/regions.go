package city

import "math"

// Map geometry, in logical map units (0..CanvasSize on both axes).
const (
	// HQRadius is the half-diagonal of the HQ diamond at the map centre.
	HQRadius = 22.0

	// MapPixelsPerUnit is the render density of the map content at scale 1.
	// Content-centred offsets are in these pixels.
	MapPixelsPerUnit = 2.0
)

// Rect is an axis-aligned box in map units.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Center returns the midpoint of the box.
func (r Rect) Center() Vec2 {
	return Vec2{(r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2}
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// DistrictBounds returns the quadrant a district occupies.
func DistrictBounds(id RegionID) (Rect, bool) {
	const h = CanvasSize / 2
	switch id {
	case AmberHaze:
		return Rect{0, 0, h, h}, true
	case VioletSky:
		return Rect{h, 0, CanvasSize, h}, true
	case RedLight:
		return Rect{0, h, h, CanvasSize}, true
	case EmeraldPark:
		return Rect{h, h, CanvasSize, CanvasSize}, true
	}
	return Rect{}, false
}

// HQDiamond returns the HQ outline clockwise from the top vertex.
func HQDiamond() [4]Vec2 {
	const c = CanvasSize / 2
	return [4]Vec2{
		{c, c - HQRadius},
		{c + HQRadius, c},
		{c, c + HQRadius},
		{c - HQRadius, c},
	}
}

// RegionAt resolves a map point to the region under it. HQ sits on top of the
// four quadrants. Points off the canvas resolve to nothing.
func RegionAt(x, y float64) (RegionID, bool) {
	if x < 0 || y < 0 || x > CanvasSize || y > CanvasSize || math.IsNaN(x) || math.IsNaN(y) {
		return "", false
	}
	const c = CanvasSize / 2
	if math.Abs(x-c)+math.Abs(y-c) <= HQRadius {
		return HQ, true
	}
	switch {
	case x < c && y < c:
		return AmberHaze, true
	case y < c:
		return VioletSky, true
	case x < c:
		return RedLight, true
	default:
		return EmeraldPark, true
	}
}

// ContentToMap converts a content-centred pixel offset to map units.
func ContentToMap(p Vec2) Vec2 {
	return Vec2{p.X/MapPixelsPerUnit + CanvasSize/2, p.Y/MapPixelsPerUnit + CanvasSize/2}
}

// MapToContent converts map units to a content-centred pixel offset.
func MapToContent(m Vec2) Vec2 {
	return Vec2{(m.X - CanvasSize/2) * MapPixelsPerUnit, (m.Y - CanvasSize/2) * MapPixelsPerUnit}
}
