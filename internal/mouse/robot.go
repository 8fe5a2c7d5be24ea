package mouse

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/mudra/internal/cursor"
)

// RobotActuator drives the system pointer through robotgo.
type RobotActuator struct{}

// NewRobotActuator creates a RobotActuator.
func NewRobotActuator() *RobotActuator {
	return &RobotActuator{}
}

// Apply injects a into the OS. Terminate is not a pointer action and is ignored.
func (r *RobotActuator) Apply(a Action) error {
	switch a.Kind {
	case MoveTo:
		robotgo.Move(a.X, a.Y)
	case Press:
		if err := robotgo.Toggle(a.Button.String()); err != nil {
			return fmt.Errorf("press %s: %w", a.Button, err)
		}
	case Release:
		if err := robotgo.Toggle(a.Button.String(), "up"); err != nil {
			return fmt.Errorf("release %s: %w", a.Button, err)
		}
	case Click:
		robotgo.Click(a.Button.String())
	case Terminate:
	default:
		return fmt.Errorf("unknown action %v", a.Kind)
	}
	return nil
}

// ScreenSize returns the main display size in pixels.
func ScreenSize() cursor.Size {
	w, h := robotgo.GetScreenSize()
	return cursor.Size{Width: w, Height: h}
}
