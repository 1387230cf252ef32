package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"minestock/internal"
	"minestock/internal/util"
)

type historyPayload struct {
	Search *internal.EvaluationRequest `json:"search,omitempty"`
	Codes  []string                    `json:"codes,omitempty"`
}

// RecordSearch prepends a search entry, trims the list to the cap and
// returns the updated history, newest first.
func (d *DB) RecordSearch(req internal.EvaluationRequest) ([]internal.HistoryEntry, error) {
	label := fmt.Sprintf("%s - %s...", req.MaterialCode, util.Truncate(req.Description, 20))
	return d.record(internal.HistorySearch, label, historyPayload{Search: &req})
}

// RecordUpload prepends a bulk-upload entry. The label carries either
// the file name or the submitted item count.
func (d *DB) RecordUpload(label string, codes []string) ([]internal.HistoryEntry, error) {
	return d.record(internal.HistoryUpload, label, historyPayload{Codes: codes})
}

func UploadLabel(fileName string, count int) string {
	if fileName != "" {
		return "File: " + fileName
	}
	return fmt.Sprintf("Bulk Upload (%d items)", count)
}

func (d *DB) record(kind internal.HistoryKind, label string, payload historyPayload) ([]internal.HistoryEntry, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	entry := internal.HistoryEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO history (id, kind, label, createdAt, payloadJson) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, string(kind), label, entry.CreatedAt.Format(timeLayout), string(blob),
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		`DELETE FROM history WHERE id NOT IN (
		   SELECT id FROM history ORDER BY createdAt DESC, rowid DESC LIMIT ?
		 )`, d.historyLimit,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d.History()
}

// History lists the recent activity, newest first. Rows with corrupt
// payloads are dropped silently so a damaged database never blocks
// startup.
func (d *DB) History() ([]internal.HistoryEntry, error) {
	rows, err := d.conn.Query(
		`SELECT id, kind, label, createdAt, payloadJson FROM history
		 ORDER BY createdAt DESC, rowid DESC LIMIT ?`, d.historyLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.HistoryEntry{}
	for rows.Next() {
		entry, ok := scanHistoryRow(rows)
		if !ok {
			continue
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// GetHistory resolves one entry for replay.
func (d *DB) GetHistory(id string) (*internal.HistoryEntry, error) {
	row := d.conn.QueryRow(
		`SELECT id, kind, label, createdAt, payloadJson FROM history WHERE id = ?`, id)

	var (
		entry   internal.HistoryEntry
		kind    string
		created string
		blob    string
	)
	if err := row.Scan(&entry.ID, &kind, &entry.Label, &created, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	fillHistoryEntry(&entry, kind, created, blob)
	return &entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistoryRow(rows rowScanner) (internal.HistoryEntry, bool) {
	var (
		entry   internal.HistoryEntry
		kind    string
		created string
		blob    string
	)
	if err := rows.Scan(&entry.ID, &kind, &entry.Label, &created, &blob); err != nil {
		return internal.HistoryEntry{}, false
	}
	fillHistoryEntry(&entry, kind, created, blob)
	return entry, true
}

func fillHistoryEntry(entry *internal.HistoryEntry, kind, created, blob string) {
	entry.Kind = internal.HistoryKind(kind)
	if parsed, err := time.Parse(time.RFC3339Nano, created); err == nil {
		entry.CreatedAt = parsed
	}
	var payload historyPayload
	if err := json.Unmarshal([]byte(blob), &payload); err == nil {
		entry.Search = payload.Search
		entry.Codes = payload.Codes
	}
}
