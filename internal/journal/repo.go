package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielfarrell/gatsby/internal/event"
)

// Entry is one journaled event. The payload is kept as raw JSON; typed
// payloads only exist in-process.
type Entry struct {
	Seq       int64           `json:"seq"`
	Kind      string          `json:"kind"`
	Plugin    string          `json:"plugin,omitempty"`
	TraceID   string          `json:"traceId,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RecordEvent appends an event to the journal.
func (db *DB) RecordEvent(ev event.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("journal: marshal payload: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO events (kind, plugin, trace_id, payload)
		VALUES (?, ?, ?, ?)
	`, string(ev.Kind), ev.Plugin, ev.TraceID, string(payload))
	if err != nil {
		return fmt.Errorf("journal: record event: %w", err)
	}
	return nil
}

// Events returns the most recent entries, newest first. limit <= 0 means
// a default of 100.
func (db *DB) Events(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.conn.Query(`
		SELECT seq, kind, plugin, trace_id, payload, created_at
		FROM events ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.Seq, &e.Kind, &e.Plugin, &e.TraceID, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = json.RawMessage(payload)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveDigest upserts the content digest for a node id.
func (db *DB) SaveDigest(nodeID, digest string) error {
	_, err := db.conn.Exec(`
		INSERT INTO digests (node_id, digest) VALUES (?, ?)
		ON CONFLICT(node_id) DO UPDATE SET digest = excluded.digest
	`, nodeID, digest)
	if err != nil {
		return fmt.Errorf("journal: save digest: %w", err)
	}
	return nil
}

// DeleteDigest drops the digest for a node id.
func (db *DB) DeleteDigest(nodeID string) error {
	_, err := db.conn.Exec(`DELETE FROM digests WHERE node_id = ?`, nodeID)
	if err != nil {
		return fmt.Errorf("journal: delete digest: %w", err)
	}
	return nil
}

// AllDigests returns every stored node digest, used to warm-start change
// detection.
func (db *DB) AllDigests() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT node_id, digest FROM digests`)
	if err != nil {
		return nil, fmt.Errorf("journal: all digests: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, d string
		if err := rows.Scan(&id, &d); err != nil {
			return nil, err
		}
		out[id] = d
	}
	return out, rows.Err()
}
