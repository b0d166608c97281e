// Package storage provides a SQLite journal of eaten events.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The journal is write-only from the engine's point of view: nothing in it
// is ever loaded back into game state.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the CLI keeps its journal.
const DefaultPath = "~/.mukbang/mukbang.db"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// EatenEntry is one journaled eaten event.
type EatenEntry struct {
	ID        int64
	Session   string
	Kind      string
	Score     int
	EventTS   int64 // engine timestamp, Unix milliseconds
	CreatedAt time.Time
}

// SessionStats aggregates the eaten events of one session.
type SessionStats struct {
	Session    string
	Eaten      int
	FinalScore int
	LastEaten  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS eaten_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			event_ts INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_eaten_session ON eaten_events(session);
		CREATE INDEX IF NOT EXISTS idx_eaten_score ON eaten_events(score DESC);
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

// SaveEaten records one eaten event.
// Returns the ID of the inserted record.
func (s *Store) SaveEaten(session, kind string, score int, eventTS int64) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO eaten_events (session, kind, score, event_ts) VALUES (?, ?, ?, ?)",
		session, kind, score, eventTS,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save eaten event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentEaten retrieves the most recent eaten events across sessions.
func (s *Store) RecentEaten(limit int) ([]EatenEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryEaten(
		`SELECT id, session, kind, score, event_ts, created_at
		 FROM eaten_events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// SessionEaten retrieves every eaten event of one session in order.
func (s *Store) SessionEaten(session string) ([]EatenEntry, error) {
	return s.queryEaten(
		`SELECT id, session, kind, score, event_ts, created_at
		 FROM eaten_events
		 WHERE session = ?
		 ORDER BY id ASC`,
		session,
	)
}

func (s *Store) queryEaten(query string, args ...any) ([]EatenEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query eaten events: %w", err)
	}
	defer rows.Close()

	var entries []EatenEntry
	for rows.Next() {
		var e EatenEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Session, &e.Kind, &e.Score, &e.EventTS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestScore returns the highest score ever reported by an eaten event.
// Returns 0 if the journal is empty.
func (s *Store) BestScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM eaten_events").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// TopSessions returns per-session aggregates ordered by final score.
func (s *Store) TopSessions(limit int) ([]SessionStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT session, COUNT(*), MAX(score), MAX(created_at)
		 FROM eaten_events
		 GROUP BY session
		 ORDER BY MAX(score) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	defer rows.Close()

	var stats []SessionStats
	for rows.Next() {
		var st SessionStats
		var last any
		if err := rows.Scan(&st.Session, &st.Eaten, &st.FinalScore, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastEaten = parseTime(last)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearSession deletes the events of one session.
func (s *Store) ClearSession(session string) error {
	_, err := s.db.Exec("DELETE FROM eaten_events WHERE session = ?", session)
	if err != nil {
		return fmt.Errorf("storage: cannot clear session: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
