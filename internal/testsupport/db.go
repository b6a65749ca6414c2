package testsupport

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"melonhub/pkg/database"

	_ "github.com/mattn/go-sqlite3"
)

// MustOpenDB opens an in-memory SQLite database with the full schema applied
// and registers cleanup on the test.
func MustOpenDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a shared-cache :memory: db disappears when the last conn closes
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// MustSeedGenre inserts a genre row and returns its id.
func MustSeedGenre(t testing.TB, db *sql.DB, code, name string) int64 {
	t.Helper()

	res, err := db.ExecContext(context.Background(), `
		INSERT INTO genres (code, name) VALUES (?, ?)
	`, code, name)
	if err != nil {
		t.Fatalf("seed genre: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// MustSeedSong inserts an artist (if needed) and a song, returning the song id.
func MustSeedSong(t testing.TB, db *sql.DB, title, artist, album string, melonID int64) int64 {
	t.Helper()
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `
		INSERT INTO artists (name) VALUES (?) ON CONFLICT(name) DO NOTHING
	`, artist); err != nil {
		t.Fatalf("seed artist: %v", err)
	}
	var artistID int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM artists WHERE name = ?`, artist).Scan(&artistID); err != nil {
		t.Fatalf("lookup artist: %v", err)
	}

	var key any
	if melonID != 0 {
		key = melonID
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO songs (title, artist_id, album, melon_song_id, scraped_at)
		VALUES (?, ?, ?, ?, ?)
	`, title, artistID, album, key, time.Now())
	if err != nil {
		t.Fatalf("seed song: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}
