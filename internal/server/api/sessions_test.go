package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mouse"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedSession(t *testing.T, s *store.Store, id string) {
	t.Helper()
	sess := &store.Session{
		ID:        id,
		StartedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ScreenW:   1920,
		ScreenH:   1080,
	}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
}

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	seedSession(t, s, "session-1")

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(response.Sessions))
	}
	got := response.Sessions[0]
	if got.ID != "session-1" || got.ScreenW != 1920 || got.ScreenH != 1080 {
		t.Errorf("unexpected session %+v", got)
	}
	if got.StartedAt != "2026-02-01T09:00:00Z" {
		t.Errorf("started_at = %q", got.StartedAt)
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body := rec.Body.String(); body != "{\"sessions\":[]}\n" {
		t.Errorf("body = %q, want an empty list", body)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	seedSession(t, s, "session-1")

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing session", "/api/sessions/session-1", http.StatusOK},
		{"missing session", "/api/sessions/nope", http.StatusNotFound},
		{"unknown sub-resource", "/api/sessions/session-1/frames", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestSessionHandler_Events(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	seedSession(t, s, "session-1")

	at := time.Date(2026, 2, 1, 9, 0, 1, 0, time.UTC)
	for _, e := range []gesture.Event{gesture.GrabPress, gesture.GrabRelease, gesture.RightClick} {
		if err := s.Events().Append(store.EventFromAction("session-1", mouse.ForEvent(e), at)); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/session-1/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listEventsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.SessionID != "session-1" {
		t.Errorf("session_id = %q", response.SessionID)
	}

	want := []string{"press", "release", "click"}
	if len(response.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(response.Events))
	}
	for i, e := range response.Events {
		if e.Kind != want[i] {
			t.Errorf("event %d kind = %q, want %q", i, e.Kind, want[i])
		}
	}
	if response.Events[2].Button != "right" || response.Events[2].Finger != "ring" {
		t.Errorf("click event = %+v", response.Events[2])
	}

	t.Run("missing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/sessions", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
