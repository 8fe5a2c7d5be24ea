package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Third read should fail (no loop)
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoMoreFrames) {
		t.Errorf("ReadFrame() error = %v, want ErrNoMoreFrames", err)
	}
	if got := cam.Reads(); got != 3 {
		t.Errorf("Reads() = %d, want 3", got)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_Size(t *testing.T) {
	frame := gocv.NewMatWithSize(800, 1366, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	if w, h := cam.Size(); w != 1366 || h != 800 {
		t.Errorf("Size() = %dx%d, want 1366x800", w, h)
	}

	empty := NewMockCamera(nil, false)
	if w, h := empty.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size() without frames = %dx%d, want defaults", w, h)
	}
}

func TestMockCamera_OpenError(t *testing.T) {
	cam := NewMockCamera(nil, false)
	want := errors.New("device busy")
	cam.SetOpenError(want)

	if err := cam.Open(); !errors.Is(err, want) {
		t.Errorf("Open() error = %v, want %v", err, want)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after a failed Open")
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}
