package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Queued results are returned first, one per Detect call; after that every
// call returns the hands set with SetHands.
type MockDetector struct {
	mu     sync.Mutex
	queue  [][]HandLandmarks
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect once the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results. A nil entry means no hand in that frame.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the pre-configured hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OpenPalmLandmarks returns a right hand with every finger extended upward.
// The index tip sits at (0.58, 0.35).
func OpenPalmLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point{X: 0.62, Y: 0.70}
	h.Points[ThumbIP] = Point{X: 0.68, Y: 0.65}
	h.Points[ThumbTip] = Point{X: 0.73, Y: 0.60}

	h.Points[IndexMCP] = Point{X: 0.55, Y: 0.68}
	h.Points[IndexPIP] = Point{X: 0.57, Y: 0.55}
	h.Points[IndexDIP] = Point{X: 0.58, Y: 0.45}
	h.Points[IndexTip] = Point{X: 0.58, Y: 0.35}

	h.Points[MiddleMCP] = Point{X: 0.50, Y: 0.66}
	h.Points[MiddlePIP] = Point{X: 0.50, Y: 0.52}
	h.Points[MiddleDIP] = Point{X: 0.50, Y: 0.40}
	h.Points[MiddleTip] = Point{X: 0.50, Y: 0.28}

	h.Points[RingMCP] = Point{X: 0.45, Y: 0.68}
	h.Points[RingPIP] = Point{X: 0.43, Y: 0.55}
	h.Points[RingDIP] = Point{X: 0.42, Y: 0.45}
	h.Points[RingTip] = Point{X: 0.42, Y: 0.35}

	h.Points[PinkyMCP] = Point{X: 0.40, Y: 0.70}
	h.Points[PinkyPIP] = Point{X: 0.37, Y: 0.60}
	h.Points[PinkyDIP] = Point{X: 0.35, Y: 0.50}
	h.Points[PinkyTip] = Point{X: 0.34, Y: 0.42}

	return h
}

// curl folds a finger so its tip ends well below its PIP joint.
func curl(h HandLandmarks, pip, dip, tip int) HandLandmarks {
	j := h.Points[pip]
	h.Points[dip] = Point{X: j.X - 0.02, Y: j.Y + 0.04}
	h.Points[tip] = Point{X: j.X - 0.03, Y: j.Y + 0.08}
	return h
}

// GrabLandmarks returns an open palm with the middle finger curled.
func GrabLandmarks() HandLandmarks {
	return curl(OpenPalmLandmarks(), MiddlePIP, MiddleDIP, MiddleTip)
}

// RightClickLandmarks returns an open palm with the ring finger curled.
func RightClickLandmarks() HandLandmarks {
	return curl(OpenPalmLandmarks(), RingPIP, RingDIP, RingTip)
}

// LeftClickLandmarks returns an open palm with the pinky curled.
func LeftClickLandmarks() HandLandmarks {
	return curl(OpenPalmLandmarks(), PinkyPIP, PinkyDIP, PinkyTip)
}

// RockLandmarks returns the "rock and roll" pose: index and pinky extended,
// middle and ring curled well past their PIP joints.
func RockLandmarks() HandLandmarks {
	h := curl(OpenPalmLandmarks(), MiddlePIP, MiddleDIP, MiddleTip)
	return curl(h, RingPIP, RingDIP, RingTip)
}
