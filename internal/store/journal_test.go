package store

import (
	"testing"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mouse"
)

func TestJournal_RecordsButtonActions(t *testing.T) {
	s := newTestStore(t)

	j, err := NewJournal(s, cursor.Size{Width: 1366, Height: 768}, 0)
	if err != nil {
		t.Fatalf("NewJournal() error = %v", err)
	}

	j.Record(mouse.Move(cursor.Point{X: 10, Y: 10}))
	j.Record(mouse.ForEvent(gesture.GrabPress).At(cursor.Point{X: 10, Y: 10}))
	j.Record(mouse.ForEvent(gesture.GrabRelease))
	j.Record(mouse.Exit())

	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	events, err := s.Events().ListBySession(j.SessionID())
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("journaled %d events, want 2", len(events))
	}
	if events[0].Kind != "press" || events[0].X != 10 {
		t.Errorf("first event = %+v", events[0])
	}
	if got := j.Written(); got != 2 {
		t.Errorf("Written() = %d, want 2", got)
	}

	sess, err := s.Sessions().GetByID(j.SessionID())
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if sess.ScreenW != 1366 || sess.ScreenH != 768 {
		t.Errorf("session screen = %dx%d", sess.ScreenW, sess.ScreenH)
	}
	if sess.EndedAt == nil {
		t.Error("Close() should end the session")
	}
}

func TestJournal_RecordAfterCloseDrops(t *testing.T) {
	s := newTestStore(t)

	j, err := NewJournal(s, cursor.Size{Width: 1, Height: 1}, 1)
	if err != nil {
		t.Fatalf("NewJournal() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	j.Record(mouse.ForEvent(gesture.LeftClick))
	if got := j.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}
}

func TestJournal_DistinctSessions(t *testing.T) {
	s := newTestStore(t)

	a, _ := NewJournal(s, cursor.Size{Width: 1, Height: 1}, 0)
	b, _ := NewJournal(s, cursor.Size{Width: 1, Height: 1}, 0)
	defer a.Close()
	defer b.Close()

	if a.SessionID() == b.SessionID() {
		t.Error("journals share a session ID")
	}
}
