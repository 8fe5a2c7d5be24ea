package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/mouse"
)

// Run opens the camera and processes frames until ctx is cancelled or the
// exit pose is recognised.
//
// Frame processing runs on the calling goroutine; presentation runs on a
// second goroutine fed through a single-slot handoff. On cancellation a held
// grab is released, the camera and detector are closed and Run returns nil.
// On the exit pose Run returns ErrExitGesture at once and releases nothing;
// the caller decides how to leave.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	cam := a.Camera()
	if err := cam.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrAcquisitionUnavailable, err)
	}
	log.Println("Detection pipeline started")

	presentCtx, stopPresenting := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.runPresenter(presentCtx)
	}()
	defer func() {
		stopPresenting()
		wg.Wait()
	}()

	err := a.runPipeline(ctx)
	if err != nil {
		return err
	}

	a.shutdown()
	return nil
}

// runPipeline is the producer loop: read a frame, detect the hand, run the
// gesture pipeline, apply its actions and hand the payload to the presenter.
// A failed read or detection is logged and retried after RetryDelay.
func (a *App) runPipeline(ctx context.Context) error {
	cam := a.Camera()

	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			if !a.sleep(ctx) {
				return nil
			}
			continue
		}

		// Paused: keep draining the camera at the retry pace and let go of
		// a held grab. The click latches are left untouched.
		if !a.IsEnabled() {
			frame.Close()
			a.releaseGrab()
			if !a.sleep(ctx) {
				return nil
			}
			continue
		}

		hands, err := a.Detector().Detect(frame)
		frame.Close() // Done with the frame

		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			if !a.sleep(ctx) {
				return nil
			}
			continue
		}

		res := a.pipe.Process(detector.FirstHand(hands))
		if res.Terminate {
			log.Println("Exit gesture recognised")
			return ErrExitGesture
		}

		a.apply(res.Actions)
		a.slot.Offer(res.Output)
	}
}

// apply sends actions to the actuator in order. Actuator errors are logged
// and the frame continues. Discrete actions are also journaled.
func (a *App) apply(actions []mouse.Action) {
	act := a.currentActuator()
	journal := a.currentJournal()

	for _, action := range actions {
		if action.Kind == mouse.Terminate {
			continue
		}
		if err := act.Apply(action); err != nil {
			log.Printf("Error applying %s: %v", action, err)
		}
		if action.Kind == mouse.MoveTo {
			continue
		}
		log.Printf("Gesture action: %s (%s)", action, action.Finger)
		if journal != nil {
			journal.Record(action)
		}
	}
}

// runPresenter is the consumer loop. Every PresentInterval it takes the
// latest handed-off payload, if any, and passes it to every presenter.
func (a *App) runPresenter(ctx context.Context) {
	ticker := time.NewTicker(a.config.PresentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, ok := a.slot.Poll()
			if !ok {
				continue
			}
			for _, p := range a.currentPresenters() {
				p.Present(out)
			}
		}
	}
}

// releaseGrab applies a release for a held grab and clears the latch.
func (a *App) releaseGrab() {
	if release, ok := a.pipe.ReleaseGrab(); ok {
		log.Println("Releasing held grab")
		a.apply([]mouse.Action{release})
	}
}

// shutdown releases a held grab and closes the camera and detector.
func (a *App) shutdown() {
	a.releaseGrab()

	if err := a.Camera().Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// sleep waits RetryDelay and reports false if ctx was cancelled meanwhile.
func (a *App) sleep(ctx context.Context) bool {
	t := time.NewTimer(a.config.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
