// Package mouse defines the pointer actions produced per frame and the
// actuators that apply them to the system pointer.
package mouse

import (
	"fmt"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/gesture"
)

// Button is a mouse button.
type Button int

const (
	Left Button = iota
	Right
)

func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Kind is the type of a pointer action.
type Kind int

const (
	MoveTo Kind = iota
	Press
	Release
	Click
	Terminate
)

func (k Kind) String() string {
	switch k {
	case MoveTo:
		return "move-to"
	case Press:
		return "press"
	case Release:
		return "release"
	case Click:
		return "click"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is one pointer action. Button is meaningful for Press, Release
// and Click. X and Y are the target of MoveTo; on button actions they
// record where the cursor was and are not applied.
type Action struct {
	Kind   Kind
	Button Button
	X, Y   int
	Finger gesture.Finger
}

func (a Action) String() string {
	switch a.Kind {
	case MoveTo:
		return fmt.Sprintf("move-to(%d,%d)", a.X, a.Y)
	case Press, Release, Click:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Button)
	default:
		return a.Kind.String()
	}
}

// Move returns a MoveTo action driven by the index finger.
func Move(p cursor.Point) Action {
	return Action{Kind: MoveTo, X: p.X, Y: p.Y, Finger: gesture.Index}
}

// At returns a copy of a positioned at p.
func (a Action) At(p cursor.Point) Action {
	a.X, a.Y = p.X, p.Y
	return a
}

// ForEvent translates a gesture event into its pointer action.
func ForEvent(e gesture.Event) Action {
	switch e {
	case gesture.GrabPress:
		return Action{Kind: Press, Button: Left, Finger: gesture.Middle}
	case gesture.GrabRelease:
		return Action{Kind: Release, Button: Left, Finger: gesture.Middle}
	case gesture.RightClick:
		return Action{Kind: Click, Button: Right, Finger: gesture.Ring}
	default:
		return Action{Kind: Click, Button: Left, Finger: gesture.Pinky}
	}
}

// Exit returns the terminate action.
func Exit() Action {
	return Action{Kind: Terminate}
}

// Actuator applies pointer actions to a pointer device.
type Actuator interface {
	Apply(a Action) error
}
