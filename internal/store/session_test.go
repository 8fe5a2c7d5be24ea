package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{ScreenW: 1920, ScreenH: 1080}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("Create() set ID %q, want a UUID: %v", sess.ID, err)
	}
	if sess.StartedAt.IsZero() {
		t.Error("Create() should set StartedAt")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ScreenW != 1920 || got.ScreenH != 1080 {
		t.Errorf("screen = %dx%d, want 1920x1080", got.ScreenW, got.ScreenH)
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil for an open session", got.EndedAt)
	}
}

func TestSessionRepository_CreateKeepsID(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{ID: "fixed-id", ScreenW: 800, ScreenH: 600}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", sess.ID)
	}

	if err := s.Sessions().Create(&Session{ID: "fixed-id"}); err == nil {
		t.Error("Create() with a duplicate ID should fail")
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_End(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{ScreenW: 1, ScreenH: 1}
	repo.Create(sess)

	end := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	if err := repo.End(sess.ID, end); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil {
		t.Fatal("EndedAt = nil after End")
	}
	if !got.EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, end)
	}

	if err := repo.End("missing", end); !errors.Is(err, ErrNotFound) {
		t.Errorf("End() on missing session error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		repo.Create(&Session{ID: id, StartedAt: base.Add(time.Duration(i) * time.Second)})
	}

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[2] != "a" {
		t.Errorf("List() ids = %v, want newest first [c b a]", ids)
	}
}
