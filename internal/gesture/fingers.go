// Package gesture classifies finger curl from hand landmarks and turns the
// per-frame finger states into debounced pointer gestures.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger identifies one of the four tracked fingers. The thumb is not tracked.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
	numFingers
)

// Fingers lists the tracked fingers in landmark order.
var Fingers = [numFingers]Finger{Index, Middle, Ring, Pinky}

var fingerNames = [numFingers]string{"index", "middle", "ring", "pinky"}

// joints holds the (tip, PIP) landmark indices of each tracked finger.
var joints = [numFingers][2]int{
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

func (f Finger) valid() bool { return f >= 0 && f < numFingers }

func (f Finger) String() string {
	if !f.valid() {
		return fmt.Sprintf("finger(%d)", int(f))
	}
	return fingerNames[f]
}

// Tip returns the landmark index of the fingertip, or -1 for an invalid finger.
func (f Finger) Tip() int {
	if !f.valid() {
		return -1
	}
	return joints[f][0]
}

// PIP returns the landmark index of the proximal interphalangeal joint, or
// -1 for an invalid finger.
func (f Finger) PIP() int {
	if !f.valid() {
		return -1
	}
	return joints[f][1]
}

// MarshalText lets Finger be used as a JSON object key.
func (f Finger) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("invalid finger %d", int(f))
	}
	return []byte(fingerNames[f]), nil
}

// UnmarshalText parses a finger name.
func (f *Finger) UnmarshalText(text []byte) error {
	for i, name := range fingerNames {
		if name == string(text) {
			*f = Finger(i)
			return nil
		}
	}
	return fmt.Errorf("unknown finger %q", text)
}

// Default classification thresholds in normalized image units.
//
// These are fixed, not calibrated per user or per hand size. A small hand
// far from the camera may never clear them; that is a known limitation.
const (
	DefaultCurlThreshold   = 0.04
	DefaultExtendThreshold = 0.04
)

// Thresholds configures the "strong" finger states used by the exit gesture.
type Thresholds struct {
	// Curl is how far a tip must sit below its PIP joint to count as strongly curled.
	Curl float64
	// Extend is how far a tip must sit above its PIP joint to count as strongly extended.
	Extend float64
}

// DefaultThresholds returns the fixed classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Curl: DefaultCurlThreshold, Extend: DefaultExtendThreshold}
}

// FingerStates is the curl classification of one frame.
type FingerStates struct {
	// Down is true when the tip is below the PIP joint in image space.
	Down [numFingers]bool

	IndexStrongUp    bool
	PinkyStrongUp    bool
	MiddleStrongDown bool
	RingStrongDown   bool
}

// IsDown reports whether finger f is curled.
func (s FingerStates) IsDown(f Finger) bool {
	return f.valid() && s.Down[f]
}

// Rock reports whether the frame shows the exit pose: index and pinky
// strongly extended, middle and ring strongly curled.
func (s FingerStates) Rock() bool {
	return s.IndexStrongUp && s.PinkyStrongUp && s.MiddleStrongDown && s.RingStrongDown
}

// Classify derives finger states from one hand. Image y grows downward,
// so a tip with a larger y than its PIP joint is curled.
func Classify(h *detector.HandLandmarks, th Thresholds) FingerStates {
	var s FingerStates
	if h == nil {
		return s
	}

	// gap is positive when the tip sits below its PIP joint.
	var gap [numFingers]float64
	for _, f := range Fingers {
		gap[f] = h.Points[f.Tip()].Y - h.Points[f.PIP()].Y
		s.Down[f] = gap[f] > 0
	}

	s.IndexStrongUp = gap[Index] < -th.Extend
	s.PinkyStrongUp = gap[Pinky] < -th.Extend
	s.MiddleStrongDown = gap[Middle] > th.Curl
	s.RingStrongDown = gap[Ring] > th.Curl

	return s
}
