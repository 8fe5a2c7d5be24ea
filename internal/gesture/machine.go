package gesture

import "fmt"

// Event is a discrete gesture transition.
type Event int

const (
	// GrabPress is emitted when the middle finger curls.
	GrabPress Event = iota + 1
	// GrabRelease is emitted when the middle finger straightens again.
	GrabRelease
	// RightClick is emitted once per ring finger curl.
	RightClick
	// LeftClick is emitted once per pinky curl.
	LeftClick
)

func (e Event) String() string {
	switch e {
	case GrabPress:
		return "grab-press"
	case GrabRelease:
		return "grab-release"
	case RightClick:
		return "right-click"
	case LeftClick:
		return "left-click"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Finger returns the finger that drives e.
func (e Event) Finger() Finger {
	switch e {
	case RightClick:
		return Ring
	case LeftClick:
		return Pinky
	default:
		return Middle
	}
}

// Transition is the outcome of one Step.
type Transition struct {
	// Terminate is set on the frame the exit pose first appears.
	// When set, Events and Active are empty.
	Terminate bool
	// Events are the gesture edges of this frame in grab, right, left order.
	Events []Event
	// Active flags each finger for presentation.
	Active [numFingers]bool
}

// IsActive reports whether f is flagged active.
func (t Transition) IsActive(f Finger) bool {
	return f.valid() && t.Active[f]
}

// Machine holds the gesture latches that persist between frames.
//
// Grab is level-triggered: press on the curl edge, release on the straighten
// edge. Right and left click are edge-triggered one-shots re-armed when the
// finger straightens. The exit pose is edge-triggered and fires once.
//
// Frames without a hand never reach Step, so latches hold while the hand
// is out of view. A grab held when the hand leaves stays held.
type Machine struct {
	middleGrabbed      bool
	ringWasDown        bool
	pinkyWasDown       bool
	allFingersWereDown bool
}

// NewMachine returns a Machine with every latch cleared.
func NewMachine() *Machine {
	return &Machine{}
}

// Step advances the latches by one frame.
func (m *Machine) Step(s FingerStates) Transition {
	var t Transition

	if s.Rock() {
		fire := !m.allFingersWereDown
		m.allFingersWereDown = true
		if fire {
			t.Terminate = true
			return t
		}
	} else {
		m.allFingersWereDown = false
	}

	t.Active[Index] = true

	if s.Down[Middle] {
		if !m.middleGrabbed {
			t.Events = append(t.Events, GrabPress)
			m.middleGrabbed = true
		}
		t.Active[Middle] = true
	} else if m.middleGrabbed {
		t.Events = append(t.Events, GrabRelease)
		m.middleGrabbed = false
	}

	if s.Down[Ring] {
		if !m.ringWasDown {
			t.Events = append(t.Events, RightClick)
			m.ringWasDown = true
		}
		t.Active[Ring] = true
	} else {
		m.ringWasDown = false
	}

	if s.Down[Pinky] {
		if !m.pinkyWasDown {
			t.Events = append(t.Events, LeftClick)
			m.pinkyWasDown = true
		}
		t.Active[Pinky] = true
	} else {
		m.pinkyWasDown = false
	}

	return t
}

// Held reports whether the grab button is currently held.
func (m *Machine) Held() bool {
	return m.middleGrabbed
}

// ReleaseGrab clears a held grab outside of a frame and reports whether one
// was held. The next frame with the middle finger curled presses again.
func (m *Machine) ReleaseGrab() bool {
	held := m.middleGrabbed
	m.middleGrabbed = false
	return held
}
