package mouse

import (
	"log"
	"sync"
)

// Recorder is an Actuator that keeps every applied action instead of
// touching the pointer.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	err     error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Apply records a. If an error was set with SetError it is returned and
// the action is not recorded.
func (r *Recorder) Apply(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.actions = append(r.actions, a)
	return nil
}

// SetError makes subsequent Apply calls fail with err.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Actions returns a copy of the recorded actions.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Buttons returns the recorded actions other than MoveTo.
func (r *Recorder) Buttons() []Action {
	var out []Action
	for _, a := range r.Actions() {
		if a.Kind != MoveTo {
			out = append(out, a)
		}
	}
	return out
}

// LogActuator logs button actions instead of applying them. Moves are
// dropped silently. It backs dry-run mode.
type LogActuator struct{}

// Apply logs a unless it is a move.
func (LogActuator) Apply(a Action) error {
	if a.Kind != MoveTo {
		log.Printf("dry-run: %s at (%d,%d)", a, a.X, a.Y)
	}
	return nil
}
