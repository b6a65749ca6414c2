package playlist

import (
	"context"
	"testing"

	"melonhub/internal/testsupport"
	"melonhub/pkg/models"
)

func mustSeedUser(t *testing.T, repo *Repo, id string) {
	t.Helper()
	if _, err := repo.DB.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, ?, ?, 'x')
	`, id, "user-"+id, id+"@example.com"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestCreateListDelete(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	mustSeedUser(t, repo, "u1")

	p := models.Playlist{ID: "p1", UserID: "u1", Name: "K-Pop Favorites"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	items, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "K-Pop Favorites" {
		t.Fatalf("items = %+v", items)
	}

	if err := repo.Delete(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	items, _ = repo.ListByUser(ctx, "u1")
	if len(items) != 0 {
		t.Fatalf("playlist should be gone, got %+v", items)
	}
}

func TestGetOwnedEnforcesOwnership(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	mustSeedUser(t, repo, "owner")
	mustSeedUser(t, repo, "other")

	if err := repo.Create(ctx, models.Playlist{ID: "p1", UserID: "owner", Name: "Mine"}); err != nil {
		t.Fatal(err)
	}

	p, err := repo.GetOwned(ctx, "p1", "owner")
	if err != nil || p == nil {
		t.Fatalf("owner lookup: p=%v err=%v", p, err)
	}

	p, err = repo.GetOwned(ctx, "p1", "other")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatal("another user must not see the playlist")
	}
}

func TestAddRemoveSongs(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	mustSeedUser(t, repo, "u1")

	songID := testsupport.MustSeedSong(t, db, "Hype Boy", "NewJeans", "New Jeans", 300)
	if err := repo.Create(ctx, models.Playlist{ID: "p1", UserID: "u1", Name: "List"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.AddSong(ctx, "p1", songID); err != nil {
		t.Fatal(err)
	}
	// adding again is a no-op, not an error
	if err := repo.AddSong(ctx, "p1", songID); err != nil {
		t.Fatal(err)
	}

	songs, err := repo.ListSongs(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 1 || songs[0].Title != "Hype Boy" {
		t.Fatalf("songs = %+v", songs)
	}

	removed, err := repo.RemoveSong(ctx, "p1", songID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	removed, err = repo.RemoveSong(ctx, "p1", songID)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Fatal("second remove should report nothing removed")
	}
}

func TestSongCountInList(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	repo := NewRepo(db)
	ctx := context.Background()
	mustSeedUser(t, repo, "u1")

	a := testsupport.MustSeedSong(t, db, "Song A", "X", "", 0)
	b := testsupport.MustSeedSong(t, db, "Song B", "Y", "", 0)

	if err := repo.Create(ctx, models.Playlist{ID: "p1", UserID: "u1", Name: "Counted"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{a, b} {
		if err := repo.AddSong(ctx, "p1", id); err != nil {
			t.Fatal(err)
		}
	}

	items, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].SongCount != 2 {
		t.Fatalf("items = %+v", items)
	}
}
