package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the pointer
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			screen_w INTEGER NOT NULL,
			screen_h INTEGER NOT NULL
		)`,

		// Gesture events table - discrete pointer actions of a session
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK(kind IN ('press', 'release', 'click')),
			button TEXT NOT NULL CHECK(button IN ('left', 'right')),
			finger TEXT NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			occurred_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gesture_events_session_id ON gesture_events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
