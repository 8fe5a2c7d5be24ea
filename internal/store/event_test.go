package store

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mouse"
)

func TestEventFromAction(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	a := mouse.ForEvent(gesture.RightClick).At(cursor.Point{X: 300, Y: 200})

	e := EventFromAction("s1", a, at)

	want := Event{
		SessionID:  "s1",
		Kind:       "click",
		Button:     "right",
		Finger:     "ring",
		X:          300,
		Y:          200,
		OccurredAt: at,
	}
	if *e != want {
		t.Errorf("EventFromAction() = %+v, want %+v", *e, want)
	}
}

func TestEventRepository_AppendList(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{ScreenW: 1920, ScreenH: 1080}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other := &Session{ScreenW: 1920, ScreenH: 1080}
	s.Sessions().Create(other)

	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	actions := []mouse.Action{
		mouse.ForEvent(gesture.GrabPress),
		mouse.ForEvent(gesture.GrabRelease),
		mouse.ForEvent(gesture.LeftClick),
	}
	repo := s.Events()
	for i, a := range actions {
		e := EventFromAction(sess.ID, a, at.Add(time.Duration(i)*time.Second))
		if err := repo.Append(e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if e.ID == 0 {
			t.Error("Append() should set ID")
		}
	}
	repo.Append(EventFromAction(other.ID, mouse.ForEvent(gesture.RightClick), at))

	events, err := repo.ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}

	want := []string{"press/left/middle", "release/left/middle", "click/left/pinky"}
	if len(events) != len(want) {
		t.Fatalf("ListBySession() returned %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		got := e.Kind + "/" + e.Button + "/" + e.Finger
		if got != want[i] {
			t.Errorf("event %d = %s, want %s", i, got, want[i])
		}
		if !e.OccurredAt.Equal(at.Add(time.Duration(i) * time.Second)) {
			t.Errorf("event %d OccurredAt = %v", i, e.OccurredAt)
		}
	}

	n, err := repo.CountBySession(other.ID)
	if err != nil {
		t.Fatalf("CountBySession() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountBySession() = %d, want 1", n)
	}
}

func TestEventRepository_RejectsUnknownSession(t *testing.T) {
	s := newTestStore(t)

	e := EventFromAction("missing", mouse.ForEvent(gesture.LeftClick), time.Now())
	if err := s.Events().Append(e); err == nil {
		t.Error("Append() for an unknown session should violate the foreign key")
	}
}

func TestEventRepository_RejectsMoves(t *testing.T) {
	s := newTestStore(t)
	sess := &Session{}
	s.Sessions().Create(sess)

	e := EventFromAction(sess.ID, mouse.Move(cursor.Point{X: 1, Y: 1}), time.Now())
	if err := s.Events().Append(e); err == nil {
		t.Error("Append() of a move-to should fail the kind check")
	}
}
