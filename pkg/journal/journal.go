// Package journal records drag gestures and their outcomes in SQLite so
// they can be replayed against a different configuration later.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/bottomsheet/pkg/gesture"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// Gesture is one recorded drag
type Gesture struct {
	ID              string
	StartedAt       time.Time
	AvailableHeight float64
	BottomInset     float64
	Translation     float64
	Velocity        float64
	From            model.Detent
	To              model.Detent
	Committed       bool
	Flick           bool
	Samples         []gesture.Sample
}

// DB is a gesture journal backed by SQLite
type DB struct {
	db *sql.DB
}

// Open opens or creates the journal at path
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	j := &DB{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return j, nil
}

// Close closes the database connection
func (j *DB) Close() error {
	return j.db.Close()
}

func (j *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS gestures (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		available_height REAL NOT NULL,
		bottom_inset REAL NOT NULL DEFAULT 0,
		translation REAL NOT NULL,
		velocity REAL NOT NULL,
		from_detent TEXT NOT NULL,
		to_detent TEXT NOT NULL,
		committed INTEGER NOT NULL,
		flick INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_gestures_started ON gestures(started_at);

	CREATE TABLE IF NOT EXISTS samples (
		gesture_id TEXT NOT NULL REFERENCES gestures(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		t_us INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		PRIMARY KEY (gesture_id, seq)
	);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record inserts g and its samples. An empty ID is filled with a new UUID.
func (j *DB) Record(g *Gesture) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.StartedAt.IsZero() && len(g.Samples) > 0 {
		g.StartedAt = g.Samples[0].At
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO gestures (id, started_at, available_height, bottom_inset, translation, velocity, from_detent, to_detent, committed, flick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.StartedAt.UTC(), g.AvailableHeight, g.BottomInset, g.Translation, g.Velocity,
		g.From.String(), g.To.String(), g.Committed, g.Flick)
	if err != nil {
		return fmt.Errorf("insert gesture: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (gesture_id, seq, t_us, x, y) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, s := range g.Samples {
		offset := s.At.Sub(g.StartedAt).Microseconds()
		if _, err := stmt.Exec(g.ID, i, offset, s.X, s.Y); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Gestures returns the most recent gestures, oldest first, with samples
// attached. A non-positive limit returns all of them.
func (j *DB) Gestures(limit int) ([]Gesture, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`
		SELECT id, started_at, available_height, bottom_inset, translation, velocity, from_detent, to_detent, committed, flick
		FROM (
			SELECT * FROM gestures ORDER BY started_at DESC LIMIT ?
		)
		ORDER BY started_at ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gesture
	for rows.Next() {
		var g Gesture
		var from, to string
		if err := rows.Scan(&g.ID, &g.StartedAt, &g.AvailableHeight, &g.BottomInset, &g.Translation, &g.Velocity,
			&from, &to, &g.Committed, &g.Flick); err != nil {
			return nil, err
		}
		if g.From, err = model.ParseDetent(from); err != nil {
			return nil, fmt.Errorf("gesture %s: %w", g.ID, err)
		}
		if g.To, err = model.ParseDetent(to); err != nil {
			return nil, fmt.Errorf("gesture %s: %w", g.ID, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		samples, err := j.Samples(out[i].ID, out[i].StartedAt)
		if err != nil {
			return nil, err
		}
		out[i].Samples = samples
	}
	return out, nil
}

// Samples returns the samples of one gesture, with times rebased on start
func (j *DB) Samples(gestureID string, start time.Time) ([]gesture.Sample, error) {
	rows, err := j.db.Query(`
		SELECT t_us, x, y FROM samples
		WHERE gesture_id = ?
		ORDER BY seq ASC
	`, gestureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gesture.Sample
	for rows.Next() {
		var us int64
		var s gesture.Sample
		if err := rows.Scan(&us, &s.X, &s.Y); err != nil {
			return nil, err
		}
		s.At = start.Add(time.Duration(us) * time.Microsecond)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of recorded gestures
func (j *DB) Count() (int, error) {
	var n int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM gestures`).Scan(&n)
	return n, err
}
