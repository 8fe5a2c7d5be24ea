package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/mouse"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

type options struct {
	camera  int
	addr    string
	static  string
	journal string
	tray    bool
	dryRun  bool
	screen  string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	fs.IntVar(&o.camera, "camera", 0, "camera device index")
	fs.StringVar(&o.addr, "addr", "127.0.0.1:8765", "HTTP listen address for status and overlay (empty disables)")
	fs.StringVar(&o.static, "static", "", "directory with overlay page assets (default: search web/ and ~/.mudra/web)")
	fs.StringVar(&o.journal, "journal", "", "SQLite file to journal gesture events to (empty disables)")
	fs.BoolVar(&o.tray, "tray", false, "show a system tray control")
	fs.BoolVar(&o.dryRun, "dry-run", false, "log pointer actions instead of moving the system pointer")
	fs.StringVar(&o.screen, "screen", "", "screen size as WIDTHxHEIGHT (default: main display size)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// parseScreen parses "WIDTHxHEIGHT".
func parseScreen(s string) (cursor.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return cursor.Size{}, fmt.Errorf("invalid screen size %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return cursor.Size{}, fmt.Errorf("invalid screen width %q: %w", w, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return cursor.Size{}, fmt.Errorf("invalid screen height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return cursor.Size{}, fmt.Errorf("invalid screen size %q: must be positive", s)
	}
	return cursor.Size{Width: width, Height: height}, nil
}

func main() {
	fmt.Println("Mudra - Hand Gesture Pointer")

	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	screen := mouse.ScreenSize()
	if opts.screen != "" {
		if screen, err = parseScreen(opts.screen); err != nil {
			log.Fatalf("Bad -screen: %v", err)
		}
	}
	log.Printf("Screen size: %dx%d", screen.Width, screen.Height)

	cfg := app.DefaultConfig(screen)
	cfg.Camera = capture.Config{DeviceID: opts.camera}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to configure pipeline: %v", err)
	}

	if opts.dryRun {
		a.SetActuator(mouse.LogActuator{})
	} else if app.DetectorName(a.Detector()) == "mock" {
		log.Fatalf("Hand detection unavailable: install the MediaPipe hand landmarker or run with -dry-run")
	}

	// cleanup runs on every exit path, including the exit gesture.
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var st *store.Store
	if opts.journal != "" {
		if err := os.MkdirAll(filepath.Dir(opts.journal), 0755); err != nil {
			log.Fatalf("Failed to create journal directory: %v", err)
		}
		st, err = store.New(opts.journal)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		j, err := store.NewJournal(st, screen, 0)
		if err != nil {
			st.Close()
			log.Fatalf("Failed to start journal: %v", err)
		}
		a.SetJournal(j)
		cleanups = append(cleanups, func() { st.Close() }, func() {
			if err := j.Close(); err != nil {
				log.Printf("Error closing journal: %v", err)
			}
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.addr != "" {
		static := opts.static
		if static == "" {
			static = findWebDir()
		}
		if static != "" {
			fmt.Printf("Serving static files from: %s\n", static)
		}

		overlay := server.NewOverlayHub()
		a.AddPresenter(overlay)
		srv := server.New(server.Config{
			StaticDir: static,
			Store:     st,
			App:       a,
			Overlay:   overlay,
		})

		fmt.Printf("Starting server on %s\n", opts.addr)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	var runErr error
	if opts.tray {
		runErr = runWithTray(ctx, stop, a, opts.addr)
	} else {
		runErr = a.Run(ctx)
	}

	switch {
	case errors.Is(runErr, app.ErrExitGesture):
		// Leave at once: release the camera, flush the journal, status 0.
		if err := a.Camera().Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
		cleanup()
		os.Exit(0)
	case runErr != nil:
		cleanup()
		log.Fatalf("Pipeline failed: %v", runErr)
	}

	cleanup()
}

// runWithTray runs the pipeline in the background while the tray owns the
// main goroutine, as the tray toolkit requires.
func runWithTray(ctx context.Context, stop context.CancelFunc, a *app.App, addr string) error {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	a.OnEnabledChange(t.SetEnabled)
	t.OnQuit(stop)
	if addr != "" {
		t.OnOverlay(func() { fmt.Printf("Overlay: http://%s/\n", addr) })
	}
	a.AddPresenter(t)

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	stop()
	return <-done
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
