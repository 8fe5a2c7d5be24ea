package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/mudra/internal/mouse"
)

// Event is one journaled button action.
type Event struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Kind       string    `json:"kind"`
	Button     string    `json:"button"`
	Finger     string    `json:"finger"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventFromAction builds the journal row for a button action.
func EventFromAction(sessionID string, a mouse.Action, at time.Time) *Event {
	return &Event{
		SessionID:  sessionID,
		Kind:       a.Kind.String(),
		Button:     a.Button.String(),
		Finger:     a.Finger.String(),
		X:          a.X,
		Y:          a.Y,
		OccurredAt: at,
	}
}

// EventRepository provides access to gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts e and sets its ID.
func (r *EventRepository) Append(e *Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, kind, button, finger, x, y, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind, e.Button, e.Finger, e.X, e.Y, e.OccurredAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession retrieves the events of a session in insertion order.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, button, finger, x, y, occurred_at
		 FROM gesture_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Button, &e.Finger, &e.X, &e.Y, &e.OccurredAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySession returns the number of events of a session.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM gesture_events WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
