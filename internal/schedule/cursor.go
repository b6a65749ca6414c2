// Package schedule rotates ingestion across the genre list. One trigger
// ingests at most one genre; the cursor is persisted so rotation survives
// restarts.
package schedule

import (
	"context"
	"database/sql"
	"fmt"
)

// CursorStore persists the rotation position in the rotation_state table
// (a single row, id 1, seeded by the schema).
type CursorStore struct {
	DB *sql.DB
}

func NewCursorStore(db *sql.DB) *CursorStore {
	return &CursorStore{DB: db}
}

func (s *CursorStore) Load(ctx context.Context) (int, error) {
	var idx int
	err := s.DB.QueryRowContext(ctx, `
		SELECT genre_index FROM rotation_state WHERE id = 1
	`).Scan(&idx)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load rotation cursor: %w", err)
	}
	return idx, nil
}

func (s *CursorStore) Save(ctx context.Context, idx int) error {
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO rotation_state (id, genre_index) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET genre_index = excluded.genre_index
	`, idx); err != nil {
		return fmt.Errorf("save rotation cursor: %w", err)
	}
	return nil
}
