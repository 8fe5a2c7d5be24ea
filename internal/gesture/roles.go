package gesture

// Role describes what a finger does, for labelling in presenters.
type Role struct {
	Finger Finger `json:"finger"`
	// Short is the one-letter fingertip label.
	Short string `json:"short"`
	// Label names the gesture the finger drives.
	Label string `json:"label"`
}

// Roles is the fixed finger to gesture mapping.
var Roles = [numFingers]Role{
	Index:  {Finger: Index, Short: "I", Label: "MOVE"},
	Middle: {Finger: Middle, Short: "M", Label: "GRAB"},
	Ring:   {Finger: Ring, Short: "R", Label: "RIGHT"},
	Pinky:  {Finger: Pinky, Short: "P", Label: "CLICK"},
}

// RoleOf returns the role of f. Unknown fingers get an empty role.
func RoleOf(f Finger) Role {
	if !f.valid() {
		return Role{Finger: f}
	}
	return Roles[f]
}
