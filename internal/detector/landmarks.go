// Package detector provides the hand landmark model and the detectors that produce it.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point is a landmark position normalized to the camera frame.
// X grows to the right and Y grows downward; both are nominally in [0,1]
// but the tracker may report values slightly outside that range.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks is one observation of a single hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

// With returns a copy of the hand with landmark i moved to p.
// Out of range indices return the hand unchanged.
func (h HandLandmarks) With(i int, p Point) HandLandmarks {
	if i < 0 || i >= NumLandmarks {
		return h
	}
	h.Points[i] = p
	return h
}

// FirstHand returns the first detected hand, or nil when none was detected.
// Only one hand is ever tracked.
func FirstHand(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	h := hands[0]
	return &h
}
