// Package app runs the capture, pipeline and presentation loops of the
// hand-gesture pointer.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mailbox"
	"github.com/ayusman/mudra/internal/mouse"
	"github.com/ayusman/mudra/internal/pipeline"
)

// Loop timing constants.
const (
	// RetryDelay is the pause after a failed frame read or detection.
	RetryDelay = 50 * time.Millisecond
	// PresentInterval is how often the presentation loop polls for a new frame.
	PresentInterval = 16 * time.Millisecond
)

var (
	// ErrExitGesture is returned by Run when the exit pose was recognised.
	// The process is expected to exit with status 0.
	ErrExitGesture = errors.New("exit gesture recognised")
	// ErrAcquisitionUnavailable is returned by Run when the camera cannot be opened.
	ErrAcquisitionUnavailable = errors.New("frame acquisition unavailable")
	// ErrAlreadyRunning is returned by Run when called while another Run is active.
	ErrAlreadyRunning = errors.New("app is already running")
)

// Presenter receives the presentation payload of processed frames. It is
// called from the presentation goroutine and only ever sees the latest
// handed-off frame.
type Presenter interface {
	Present(out pipeline.FrameOutput)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(out pipeline.FrameOutput)

// Present calls f(out).
func (f PresenterFunc) Present(out pipeline.FrameOutput) { f(out) }

// Journal records discrete pointer actions. Record must not block.
type Journal interface {
	Record(a mouse.Action)
}

// journalCounters is implemented by journals that count their writes.
type journalCounters interface {
	Written() uint64
	Dropped() uint64
}

// JournalStats reports how many actions a journal stored and dropped.
type JournalStats struct {
	Written uint64 `json:"written"`
	Dropped uint64 `json:"dropped"`
}

// Config holds configuration options for the application.
type Config struct {
	Camera          capture.Config
	Pipeline        pipeline.Config
	RetryDelay      time.Duration
	PresentInterval time.Duration
}

// DefaultConfig returns the default settings for the given screen.
func DefaultConfig(screen cursor.Size) Config {
	return Config{
		Camera:          capture.DefaultConfig(),
		Pipeline:        pipeline.DefaultConfig(screen),
		RetryDelay:      RetryDelay,
		PresentInterval: PresentInterval,
	}
}

// Status is a snapshot of the runtime, served by the status endpoint.
type Status struct {
	Running  bool           `json:"running"`
	Enabled  bool           `json:"enabled"`
	Detector string         `json:"detector"`
	Screen   cursor.Size    `json:"screen"`
	Pipeline pipeline.Stats `json:"pipeline"`
	Handoff  mailbox.Stats  `json:"handoff"`
	Journal  *JournalStats  `json:"journal,omitempty"`
}

// App is the main application that turns camera frames into pointer actions.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	actuator   mouse.Actuator
	journal    Journal
	presenters []Presenter
	listeners  []func(enabled bool)
	pipe       *pipeline.Pipeline
	slot       *mailbox.Slot[pipeline.FrameOutput]
	enabled    bool
	running    atomic.Bool
	mu         sync.RWMutex
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryDelay
	}
	if config.PresentInterval <= 0 {
		config.PresentInterval = PresentInterval
	}

	pipe, err := pipeline.New(config.Pipeline)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.Camera),
		actuator: mouse.NewRobotActuator(),
		pipe:     pipe,
		slot:     mailbox.New[pipeline.FrameOutput](),
		enabled:  true,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("WARNING: MediaPipe not available (%v), using mock detector; the pointer will not move", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled pauses or resumes gesture control. While paused, frames are
// still read but no pointer actions are produced; a held grab is released
// and the click latches are left as they were. Listeners registered with
// OnEnabledChange are called when the state changes.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	listeners := a.listeners
	a.mu.Unlock()

	if !changed {
		return
	}
	log.Printf("Gesture control enabled: %v", enabled)
	for _, fn := range listeners {
		fn(enabled)
	}
}

// OnEnabledChange registers fn to be called after every change of the
// enabled state, whichever control made it.
func (a *App) OnEnabledChange(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetActuator sets where pointer actions are applied.
func (a *App) SetActuator(act mouse.Actuator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actuator = act
}

// SetJournal sets the journal that receives discrete actions. nil disables it.
func (a *App) SetJournal(j Journal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.journal = j
}

// AddPresenter registers a presenter for processed frames.
func (a *App) AddPresenter(p Presenter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.presenters = append(a.presenters, p)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

func (a *App) currentActuator() mouse.Actuator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.actuator
}

func (a *App) currentJournal() Journal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.journal
}

func (a *App) currentPresenters() []Presenter {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.presenters
}

// Screen returns the destination screen size.
func (a *App) Screen() cursor.Size {
	return a.pipe.Config().Screen
}

// Status returns a snapshot of the runtime counters.
func (a *App) Status() Status {
	st := Status{
		Running:  a.running.Load(),
		Enabled:  a.IsEnabled(),
		Detector: DetectorName(a.Detector()),
		Screen:   a.Screen(),
		Pipeline: a.pipe.Stats(),
		Handoff:  a.slot.Stats(),
	}
	if jc, ok := a.currentJournal().(journalCounters); ok {
		st.Journal = &JournalStats{Written: jc.Written(), Dropped: jc.Dropped()}
	}
	return st
}

// DetectorName names the kind of hand detector in use: "mediapipe",
// "mock", or the Go type for anything else.
func DetectorName(d detector.Detector) string {
	switch d.(type) {
	case nil:
		return "none"
	case *detector.MediaPipeDetector:
		return "mediapipe"
	case *detector.MockDetector:
		return "mock"
	default:
		return fmt.Sprintf("%T", d)
	}
}
