package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ScriptName is the landmark service expected next to the binary or under ~/.mudra/scripts.
const ScriptName = "hand_landmarker.py"

// IdleTimeout is how long the landmark service may sit unused before it is stopped.
const IdleTimeout = 30 * time.Second

// ErrScriptNotFound is returned when the landmark service script cannot be located.
var ErrScriptNotFound = errors.New(ScriptName + " not found")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Frames are written to the subprocess as a 4-byte big-endian length followed
// by a JPEG payload. The subprocess answers each frame with one JSON line of
// the form {"hands":[{"points":[{"x":..,"y":..},...],"handedness":..,"score":..}]}.
type MediaPipeDetector struct {
	config    Config
	script    string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := findScript()
	if script == "" {
		return nil, ErrScriptNotFound
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
	}, nil
}

// Detect encodes the frame, hands it to the landmark service and returns
// at most config.MaxHands hands.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	if err := d.writeFrame(buf.GetBytes()); err != nil {
		// The pipe is unusable after a partial write.
		d.shutdown()
		return nil, err
	}

	hands, err := d.readHands()
	if err != nil {
		d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()

	if d.config.MaxHands > 0 && len(hands) > d.config.MaxHands {
		hands = hands[:d.config.MaxHands]
	}
	return hands, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) writeFrame(data []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))

	if _, err := d.stdin.Write(length[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

func (d *MediaPipeDetector) readHands() ([]HandLandmarks, error) {
	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return parseResponse(line)
}

// parseResponse decodes one response line from the landmark service.
func parseResponse(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandLandmarks, 0, len(response.Hands))
	for _, h := range response.Hands {
		if len(h.Points) < NumLandmarks {
			// A partial hand cannot be classified.
			continue
		}
		hands = append(hands, h.toHandLandmarks())
	}
	return hands, nil
}

func (d *MediaPipeDetector) command() *exec.Cmd {
	python := findVenvPython()
	if python == "" {
		python = "python3"
	}

	return exec.Command(python, d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	)
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := d.command()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	d.stdin.Close()
	err := d.cmd.Wait()

	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// firstExisting returns the absolute form of the first candidate path that exists.
func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

func execDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(execPath)
}

func findScript() string {
	home, _ := os.UserHomeDir()
	return firstExisting([]string{
		filepath.Join("scripts", ScriptName),
		filepath.Join("..", "scripts", ScriptName),
		filepath.Join(execDir(), "scripts", ScriptName),
		filepath.Join(home, ".mudra", "scripts", ScriptName),
	})
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	home, _ := os.UserHomeDir()
	return firstExisting([]string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir(), "venv/bin/python"),
		filepath.Join(home, ".mudra", "venv", "bin", "python"),
	})
}

// jsonHand represents the JSON structure from the Python service.
// The service also reports z, which pointer control does not use.
type jsonHand struct {
	Points     []Point `json:"points"`
	Handedness string  `json:"handedness"`
	Score      float64 `json:"score"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	copy(lm.Points[:], h.Points)
	return lm
}
