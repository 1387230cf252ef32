package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"minestock/internal"
)

// timeLayout is fixed width so lexicographic ORDER BY matches
// chronological order. RFC3339Nano trims trailing zeros and does not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	conn         *sql.DB
	historyLimit int
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, historyLimit: 10}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// SetHistoryLimit overrides the recent-activity cap (default 10).
func (d *DB) SetHistoryLimit(limit int) {
	if limit > 0 {
		d.historyLimit = limit
	}
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS history (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  label TEXT NOT NULL,
  createdAt TEXT NOT NULL,
  payloadJson TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_createdAt ON history(createdAt);

CREATE TABLE IF NOT EXISTS evaluations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  materialCode TEXT NOT NULL,
  source TEXT NOT NULL,
  profileJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_evaluations_materialCode ON evaluations(materialCode);
`
	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertEvaluation(profile internal.MaterialProfile, source internal.EvaluationSource) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(
		`INSERT INTO evaluations (materialCode, source, profileJson, createdAt) VALUES (?, ?, ?, ?)`,
		profile.MaterialCode, string(source), string(blob), time.Now().UTC().Format(timeLayout),
	)
	return err
}

// ListLatestProfiles returns the most recently synthesized profiles,
// newest first. Rows whose stored JSON no longer parses are skipped.
func (d *DB) ListLatestProfiles(limit int) ([]internal.MaterialProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.conn.Query(
		`SELECT profileJson FROM evaluations ORDER BY createdAt DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.MaterialProfile{}
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var profile internal.MaterialProfile
		if err := json.Unmarshal([]byte(blob), &profile); err != nil {
			continue
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

// LatestProfile returns the newest stored profile for a material code,
// or nil when the code was never evaluated.
func (d *DB) LatestProfile(code string) (*internal.MaterialProfile, error) {
	row := d.conn.QueryRow(
		`SELECT profileJson FROM evaluations WHERE materialCode = ? ORDER BY createdAt DESC, id DESC LIMIT 1`, code)
	var blob string
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var profile internal.MaterialProfile
	if err := json.Unmarshal([]byte(blob), &profile); err != nil {
		return nil, nil
	}
	return &profile, nil
}
