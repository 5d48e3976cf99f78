// Package store persists completed study results to SQLite. Only final
// results are stored; the optimizer never checkpoints intermediate state.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids SQLITE_BUSY on concurrent API requests.
	db.SetMaxOpenConns(1)
	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying handle.
func (s *DB) Close() error { return s.db.Close() }

// migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS studies (
			id          TEXT PRIMARY KEY,
			function    TEXT NOT NULL,
			bounds      TEXT NOT NULL,
			budget      INTEGER NOT NULL,
			top_k       INTEGER NOT NULL,
			seed        INTEGER,
			maximize    INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE TABLE IF NOT EXISTS arms (
			study_id      TEXT NOT NULL REFERENCES studies(id),
			rank          INTEGER NOT NULL,
			action_vector TEXT NOT NULL,
			mean_reward   REAL NOT NULL,
			num_pulls     INTEGER NOT NULL,
			PRIMARY KEY (study_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_arms_study ON arms(study_id)`,
	}
}

func (s *DB) migrate() error {
	for _, stmt := range migrations() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Records ────────────────────────────────────────────────────────────────

// ArmRecord is one stored result arm.
type ArmRecord struct {
	Rank         int     `json:"rank"`
	ActionVector []int   `json:"action_vector"`
	MeanReward   float64 `json:"mean_reward"`
	NumPulls     int     `json:"num_pulls"`
}

// StudyRecord is one completed study with its result arms.
type StudyRecord struct {
	ID        string      `json:"id"`
	Function  string      `json:"function"`
	Bounds    [][2]int    `json:"bounds"`
	Budget    int         `json:"budget"`
	TopK      int         `json:"top_k"`
	Seed      *int64      `json:"seed,omitempty"`
	Maximize  bool        `json:"maximize"`
	CreatedAt time.Time   `json:"created_at"`
	Arms      []ArmRecord `json:"arms"`
}

// ─── Operations ─────────────────────────────────────────────────────────────

// SaveStudy inserts a study and its arms in one transaction.
func (s *DB) SaveStudy(rec StudyRecord) error {
	boundsJSON, err := json.Marshal(rec.Bounds)
	if err != nil {
		return fmt.Errorf("encode bounds: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	maximize := 0
	if rec.Maximize {
		maximize = 1
	}
	_, err = tx.Exec(`
		INSERT INTO studies (id, function, bounds, budget, top_k, seed, maximize, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`, rec.ID, rec.Function, string(boundsJSON), rec.Budget, rec.TopK, rec.Seed, maximize)
	if err != nil {
		return fmt.Errorf("insert study: %w", err)
	}

	for _, arm := range rec.Arms {
		actionJSON, err := json.Marshal(arm.ActionVector)
		if err != nil {
			return fmt.Errorf("encode action vector: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO arms (study_id, rank, action_vector, mean_reward, num_pulls)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, arm.Rank, string(actionJSON), arm.MeanReward, arm.NumPulls)
		if err != nil {
			return fmt.Errorf("insert arm: %w", err)
		}
	}

	return tx.Commit()
}

// GetStudy returns one study with its arms, or sql.ErrNoRows.
func (s *DB) GetStudy(id string) (StudyRecord, error) {
	var rec StudyRecord
	var boundsJSON, createdStr string
	var maximize int
	err := s.db.QueryRow(`
		SELECT id, function, bounds, budget, top_k, seed, maximize, created_at
		FROM studies WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Function, &boundsJSON, &rec.Budget, &rec.TopK, &rec.Seed, &maximize, &createdStr)
	if err != nil {
		return StudyRecord{}, err
	}
	rec.Maximize = maximize == 1
	rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
	if err := json.Unmarshal([]byte(boundsJSON), &rec.Bounds); err != nil {
		return StudyRecord{}, fmt.Errorf("decode bounds: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT rank, action_vector, mean_reward, num_pulls
		FROM arms WHERE study_id = ? ORDER BY rank
	`, id)
	if err != nil {
		return StudyRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var arm ArmRecord
		var actionJSON string
		if err := rows.Scan(&arm.Rank, &actionJSON, &arm.MeanReward, &arm.NumPulls); err != nil {
			return StudyRecord{}, err
		}
		if err := json.Unmarshal([]byte(actionJSON), &arm.ActionVector); err != nil {
			return StudyRecord{}, fmt.Errorf("decode action vector: %w", err)
		}
		rec.Arms = append(rec.Arms, arm)
	}
	return rec, rows.Err()
}

// ListStudies returns up to limit studies, newest first, without arms.
func (s *DB) ListStudies(limit int) ([]StudyRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, function, bounds, budget, top_k, seed, maximize, created_at
		FROM studies ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StudyRecord
	for rows.Next() {
		var rec StudyRecord
		var boundsJSON, createdStr string
		var maximize int
		if err := rows.Scan(&rec.ID, &rec.Function, &boundsJSON, &rec.Budget, &rec.TopK, &rec.Seed, &maximize, &createdStr); err != nil {
			return nil, err
		}
		rec.Maximize = maximize == 1
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
		if err := json.Unmarshal([]byte(boundsJSON), &rec.Bounds); err != nil {
			return nil, fmt.Errorf("decode bounds: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
