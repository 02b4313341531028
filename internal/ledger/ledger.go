// Package ledger records the fixture artifacts each generation run produced.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event in the ledger
type EventType string

const (
	EventArtifactWritten    EventType = "artifact_written"
	EventArtifactCompressed EventType = "artifact_compressed"
	EventCompressionFailed  EventType = "compression_failed"
	EventScenarioCompleted  EventType = "scenario_completed"
)

// Entry represents a single event in the ledger
type Entry struct {
	ID        int64
	RunID     string
	EventType EventType
	Timestamp time.Time
	Scenario  string
	Path      string
	Size      int64
	SHA256    string
	Payload   map[string]any
}

// Ledger provides append-only artifact logging
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Append adds a new event to the ledger
func (l *Ledger) Append(e Entry) error {
	var payloadJSON []byte
	var err error

	if e.Payload != nil {
		payloadJSON, err = json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}

	_, err = l.db.Exec(`
		INSERT INTO artifact_ledger (run_id, event_type, timestamp, scenario, path, size, sha256, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RunID, string(e.EventType), ts.UTC().Unix(), e.Scenario, e.Path, e.Size, e.SHA256, string(payloadJSON))
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// GetByRun returns a run's entries in insertion order
func (l *Ledger) GetByRun(runID string) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, event_type, timestamp, scenario, path, size, sha256, payload
		FROM artifact_ledger
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// LatestForPath returns the most recent written entry for a path, or nil.
func (l *Ledger) LatestForPath(path string) (*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, event_type, timestamp, scenario, path, size, sha256, payload
		FROM artifact_ledger
		WHERE path = ? AND event_type = ?
		ORDER BY id DESC
		LIMIT 1
	`, path, string(EventArtifactWritten))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := l.scanEntries(rows)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := l.now().Add(-retention).Unix()
	result, err := l.db.Exec(`DELETE FROM artifact_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var path, sha, payloadStr sql.NullString
		var size sql.NullInt64
		var timestamp int64

		err := rows.Scan(
			&entry.ID, &entry.RunID, &entry.EventType, &timestamp, &entry.Scenario, &path, &size, &sha, &payloadStr,
		)
		if err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(timestamp, 0).UTC()
		entry.Path = path.String
		entry.Size = size.Int64
		entry.SHA256 = sha.String

		if payloadStr.Valid && payloadStr.String != "" {
			entry.Payload = make(map[string]any)
			if err := json.Unmarshal([]byte(payloadStr.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
