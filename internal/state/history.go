package state

import (
	"fmt"
	"time"
)

// SolveRecord is one persisted dispatch outcome.
type SolveRecord struct {
	ID        string
	Provider  string
	Tier      string
	State     string
	Duration  time.Duration
	CreatedAt time.Time
}

// RecordSolve persists one dispatch outcome.
func (db *DB) RecordSolve(rec SolveRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO solves (id, provider, tier, state, duration_ms)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Provider, rec.Tier, rec.State, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert solve %s: %w", rec.ID, err)
	}
	return nil
}

// RecentSolves returns the most recent dispatch outcomes, newest first.
func (db *DB) RecentSolves(limit int) ([]SolveRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(`
		SELECT id, provider, tier, state, duration_ms, created_at
		FROM solves
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		var rec SolveRecord
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.Provider, &rec.Tier, &rec.State, &durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan solve row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
