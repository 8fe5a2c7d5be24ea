package store

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/mouse"
)

// DefaultJournalBuffer is the number of actions a Journal queues before
// it starts dropping.
const DefaultJournalBuffer = 64

type journalEntry struct {
	action mouse.Action
	at     time.Time
}

// Journal writes the button actions of one session to the store on a
// background goroutine. Record never blocks the caller.
type Journal struct {
	store   *Store
	session *Session
	entries chan journalEntry
	done    chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped atomic.Uint64
	written atomic.Uint64
}

// NewJournal starts a new session for the given screen and returns a
// Journal recording into it. buffer <= 0 uses DefaultJournalBuffer.
func NewJournal(s *Store, screen cursor.Size, buffer int) (*Journal, error) {
	if buffer <= 0 {
		buffer = DefaultJournalBuffer
	}

	sess := &Session{ScreenW: screen.Width, ScreenH: screen.Height}
	if err := s.Sessions().Create(sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	j := &Journal{
		store:   s,
		session: sess,
		entries: make(chan journalEntry, buffer),
		done:    make(chan struct{}),
	}
	go j.run()

	log.Printf("Journaling session %s to %s", sess.ID, s.Path())
	return j, nil
}

// SessionID returns the ID of the session being recorded.
func (j *Journal) SessionID() string {
	return j.session.ID
}

// Record queues a for writing. MoveTo and Terminate actions are ignored.
// When the queue is full or the journal is closed the action is dropped.
func (j *Journal) Record(a mouse.Action) {
	switch a.Kind {
	case mouse.Press, mouse.Release, mouse.Click:
	default:
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		j.dropped.Add(1)
		return
	}

	select {
	case j.entries <- journalEntry{action: a, at: time.Now()}:
	default:
		j.dropped.Add(1)
	}
}

func (j *Journal) run() {
	defer close(j.done)
	events := j.store.Events()
	for e := range j.entries {
		if err := events.Append(EventFromAction(j.session.ID, e.action, e.at)); err != nil {
			log.Printf("Error journaling %s: %v", e.action, err)
			continue
		}
		j.written.Add(1)
	}
}

// Dropped returns how many actions were discarded.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Written returns how many actions reached the store.
func (j *Journal) Written() uint64 {
	return j.written.Load()
}

// Close flushes queued actions and stamps the session end time. It does
// not close the store.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.entries)
	j.mu.Unlock()

	<-j.done
	return j.store.Sessions().End(j.session.ID, time.Now())
}
