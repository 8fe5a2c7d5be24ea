// Package pipeline turns one hand observation per frame into pointer
// actions and a presentation payload.
package pipeline

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mouse"
)

// Config holds the pipeline settings. Every field except Screen has a
// fixed default; they are not tuned at runtime.
type Config struct {
	// Screen is the destination screen size, fixed for the session.
	Screen cursor.Size
	// Margin is the fraction of the camera field ignored on each edge.
	Margin float64
	// Alpha is the cursor smoothing factor.
	Alpha float64
	// Thresholds configures strong curl/extension for the exit pose.
	Thresholds gesture.Thresholds
}

// DefaultConfig returns the fixed pipeline settings for the given screen.
func DefaultConfig(screen cursor.Size) Config {
	return Config{
		Screen:     screen,
		Margin:     cursor.DefaultMargin,
		Alpha:      cursor.DefaultAlpha,
		Thresholds: gesture.DefaultThresholds(),
	}
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Margin < 0 || c.Margin >= 0.5 {
		return fmt.Errorf("margin %v outside [0, 0.5)", c.Margin)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha %v outside (0, 1]", c.Alpha)
	}
	if c.Thresholds.Curl < 0 || c.Thresholds.Extend < 0 {
		return errors.New("thresholds must not be negative")
	}
	return nil
}

// FrameOutput is the presentation payload of one frame. It has no
// behavioral effect; pointer behavior is carried by Result.Actions.
type FrameOutput struct {
	Seq          uint64                          `json:"seq"`
	Timestamp    time.Time                       `json:"timestamp"`
	HandDetected bool                            `json:"hand"`
	Cursor       cursor.Point                    `json:"cursor"`
	Tips         map[gesture.Finger]cursor.Point `json:"tips"`
	Active       map[gesture.Finger]bool         `json:"active"`
}

// Result is everything one frame produced.
type Result struct {
	// Actions are ordered: move-to first, then button actions.
	Actions []mouse.Action
	// Output is the presentation payload. It is empty when Terminate is set.
	Output FrameOutput
	// Terminate is set when the exit pose was recognised. The caller must
	// stop immediately; no other work was done for this frame.
	Terminate bool
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	Frames         uint64 `json:"frames"`
	HandlessFrames uint64 `json:"handless_frames"`
	Moves          uint64 `json:"moves"`
	Presses        uint64 `json:"presses"`
	Releases       uint64 `json:"releases"`
	Clicks         uint64 `json:"clicks"`
	Terminations   uint64 `json:"terminations"`
}

// Pipeline owns the gesture latches and cursor state of one session.
// Process must be called from a single goroutine; Stats may be called
// from any goroutine.
type Pipeline struct {
	cfg      Config
	machine  *gesture.Machine
	smoother *cursor.Smoother
	now      func() time.Time

	frames       atomic.Uint64
	handless     atomic.Uint64
	moves        atomic.Uint64
	presses      atomic.Uint64
	releases     atomic.Uint64
	clicks       atomic.Uint64
	terminations atomic.Uint64
}

// New creates a Pipeline after validating cfg.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		machine:  gesture.NewMachine(),
		smoother: cursor.NewSmoother(cfg.Alpha),
		now:      time.Now,
	}, nil
}

// Process runs one frame. hand is nil when no hand was detected; such a
// frame produces an empty payload and leaves every latch and the cursor as
// they were.
func (p *Pipeline) Process(hand *detector.HandLandmarks) Result {
	seq := p.frames.Add(1)

	out := FrameOutput{
		Seq:       seq,
		Timestamp: p.now(),
		Cursor:    p.smoother.Position(),
		Tips:      make(map[gesture.Finger]cursor.Point),
		Active:    make(map[gesture.Finger]bool),
	}

	if hand == nil {
		p.handless.Add(1)
		return Result{Output: out}
	}

	states := gesture.Classify(hand, p.cfg.Thresholds)
	tr := p.machine.Step(states)
	if tr.Terminate {
		p.terminations.Add(1)
		return Result{Actions: []mouse.Action{mouse.Exit()}, Terminate: true}
	}

	tip := hand.Points[detector.IndexTip]
	raw := cursor.Project(tip.X, tip.Y, p.cfg.Margin, p.cfg.Screen)
	out.Cursor = p.smoother.Update(raw)
	out.HandDetected = true

	actions := make([]mouse.Action, 0, 1+len(tr.Events))
	actions = append(actions, mouse.Move(out.Cursor))
	for _, e := range tr.Events {
		actions = append(actions, mouse.ForEvent(e).At(out.Cursor))
	}
	p.count(actions)

	for _, f := range gesture.Fingers {
		pt := hand.Points[f.Tip()]
		out.Tips[f] = cursor.Project(pt.X, pt.Y, p.cfg.Margin, p.cfg.Screen)
		out.Active[f] = tr.IsActive(f)
	}

	return Result{Actions: actions, Output: out}
}

func (p *Pipeline) count(actions []mouse.Action) {
	for _, a := range actions {
		switch a.Kind {
		case mouse.MoveTo:
			p.moves.Add(1)
		case mouse.Press:
			p.presses.Add(1)
		case mouse.Release:
			p.releases.Add(1)
		case mouse.Click:
			p.clicks.Add(1)
		}
	}
}

// GrabHeld reports whether the grab button is logically held.
// Like Process, it must be called from the goroutine that runs frames.
func (p *Pipeline) GrabHeld() bool {
	return p.machine.Held()
}

// ReleaseGrab clears a held grab outside of a frame, for pause and
// shutdown. It returns the release action to apply, stamped with the
// current cursor, and false when no grab was held.
// Like Process, it must be called from the goroutine that runs frames.
func (p *Pipeline) ReleaseGrab() (mouse.Action, bool) {
	if !p.machine.ReleaseGrab() {
		return mouse.Action{}, false
	}
	p.releases.Add(1)
	return mouse.ForEvent(gesture.GrabRelease).At(p.smoother.Position()), true
}

// Cursor returns the current smoothed cursor position.
// Like Process, it must be called from the goroutine that runs frames.
func (p *Pipeline) Cursor() cursor.Point {
	return p.smoother.Position()
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Stats returns the current counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Frames:         p.frames.Load(),
		HandlessFrames: p.handless.Load(),
		Moves:          p.moves.Load(),
		Presses:        p.presses.Load(),
		Releases:       p.releases.Load(),
		Clicks:         p.clicks.Load(),
		Terminations:   p.terminations.Load(),
	}
}
