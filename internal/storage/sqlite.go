// Package storage persists the training log in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite connection for the training log.
type Store struct {
	db *sql.DB
}

// Session is one training run, from the first countdown to game over or quit.
type Session struct {
	ID           int64
	User         string // "local" for the terminal, the SSH user otherwise
	StartedAt    time.Time
	Duration     time.Duration // Time spent in play, excluding pauses and countdowns
	HighestStage int
	Completed    bool // Reached game over rather than quitting early
}

// TrainingStats aggregates a user's sessions.
type TrainingStats struct {
	SessionsStarted   int
	SessionsCompleted int
	TotalTrainingTime time.Duration
	HighestStage      int
	LastTrained       time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			training_secs REAL NOT NULL DEFAULT 0,
			highest_stage INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user, started_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session and returns its ID.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.User == "" {
		return 0, errors.New("storage: session has no user")
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions (user, started_at, training_secs, highest_stage, completed)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.User,
		sess.StartedAt.UTC().Format(timeLayout),
		sess.Duration.Seconds(),
		sess.HighestStage,
		sess.Completed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentSessions returns up to limit sessions, newest first. An empty user
// means every user.
func (s *Store) RecentSessions(user string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, user, started_at, training_secs, highest_stage, completed
		 FROM sessions
		 WHERE ? = '' OR user = ?
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		user, user, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var startedAt any
		var secs float64
		if err := rows.Scan(&sess.ID, &sess.User, &startedAt, &secs, &sess.HighestStage, &sess.Completed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.StartedAt = parseTime(startedAt)
		sess.Duration = secondsToDuration(secs)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// Stats aggregates the training log. An empty user means every user.
func (s *Store) Stats(user string) (TrainingStats, error) {
	var st TrainingStats
	var secs float64
	var last any

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(completed), 0),
		        COALESCE(SUM(training_secs), 0),
		        COALESCE(MAX(highest_stage), 0),
		        MAX(started_at)
		 FROM sessions
		 WHERE ? = '' OR user = ?`,
		user, user,
	).Scan(&st.SessionsStarted, &st.SessionsCompleted, &secs, &st.HighestStage, &last)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	st.TotalTrainingTime = secondsToDuration(secs)
	st.LastTrained = parseTime(last)
	return st, nil
}

// ClearSessions deletes the sessions of user, or all sessions when user is empty.
func (s *Store) ClearSessions(user string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE ? = '' OR user = ?", user, user)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTime handles the driver returning either time.Time or text for
// DATETIME columns and aggregates over them.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		return parseTimeText(t)
	case []byte:
		return parseTimeText(string(t))
	}
	return time.Time{}
}

func parseTimeText(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second)).Round(time.Millisecond)
}
