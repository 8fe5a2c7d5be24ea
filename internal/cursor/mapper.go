// Package cursor maps normalized hand positions to screen pixels and smooths
// the resulting pointer trajectory.
package cursor

import "math"

// DefaultMargin is the fraction of the camera field ignored on each side,
// so the screen edges are reachable without reaching the camera edges.
const DefaultMargin = 0.10

// Point is a position in screen pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the pixel size of the destination screen.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MapWithMargin remaps v from [margin, 1-margin] onto [0,1].
// Values outside that band clamp to 0 or 1. margin must be in [0, 0.5).
func MapWithMargin(v, margin float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max((v-margin)/(1-2*margin), 0), 1)
}

// Project maps a normalized (x, y) onto the screen, truncating to whole pixels.
func Project(x, y, margin float64, screen Size) Point {
	return Point{
		X: int(MapWithMargin(x, margin) * float64(screen.Width)),
		Y: int(MapWithMargin(y, margin) * float64(screen.Height)),
	}
}
