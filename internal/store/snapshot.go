package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/quizterm/internal/session"
)

// SnapshotRepo persists the session snapshot as a single row holding
// one JSON document. Writing the document whole, under WAL, keeps each
// save atomic: a reload either sees the previous snapshot or the new
// one, never a mixture.
type snapshotRepo struct {
	db *sql.DB
}

var _ session.SnapshotRepo = (*snapshotRepo)(nil)

// SnapshotRepo returns the session.SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() session.SnapshotRepo {
	return &snapshotRepo{db: s.db}
}

// Save overwrites the stored snapshot with snap.
func (r *snapshotRepo) Save(snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO session_snapshot (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or (nil, nil) when no snapshot
// exists or the stored document cannot be parsed. A corrupt document
// is treated as "no session" rather than surfaced: partial state must
// never be resurrected.
func (r *snapshotRepo) Load() (*session.Snapshot, error) {
	var data string
	err := r.db.QueryRow(`SELECT data FROM session_snapshot WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, nil
	}
	return &snap, nil
}

// Clear removes the stored snapshot.
func (r *snapshotRepo) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM session_snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
