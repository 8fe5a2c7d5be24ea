package cursor

// DefaultAlpha is the smoothing factor: 0 never moves, 1 snaps to the raw position.
const DefaultAlpha = 0.30

// Smoother is an exponential moving average over screen positions.
// It starts at (0,0) and only moves when Update is called, so a lost hand
// leaves the pointer where it was instead of drifting.
type Smoother struct {
	alpha float64
	pos   Point
}

// NewSmoother creates a Smoother with the given alpha.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: alpha}
}

// Update moves the smoothed position alpha of the way toward raw and returns it.
// Each axis is truncated to whole pixels after the step.
func (s *Smoother) Update(raw Point) Point {
	s.pos = Point{
		X: step(s.pos.X, raw.X, s.alpha),
		Y: step(s.pos.Y, raw.Y, s.alpha),
	}
	return s.pos
}

// Position returns the last smoothed position.
func (s *Smoother) Position() Point {
	return s.pos
}

// Alpha returns the smoothing factor.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}

func step(prev, raw int, alpha float64) int {
	return int(float64(prev) + alpha*float64(raw-prev))
}
