package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"melonhub/pkg/database"
)

func main() {
	var (
		rankingsOut = flag.String("rankings", "data/rankings.csv", "output CSV path for current rankings")
		lyricsOut   = flag.String("lyrics", "data/lyrics.csv", "output CSV path for lyrics records")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportRankings(ctx, db, *rankingsOut); err != nil {
		log.Fatalf("export rankings failed: %v", err)
	}
	if err := exportLyrics(ctx, db, *lyricsOut); err != nil {
		log.Fatalf("export lyrics failed: %v", err)
	}

	log.Printf("exported rankings to %s and lyrics to %s", *rankingsOut, *lyricsOut)
}

func exportRankings(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"genre", "rank", "movement", "title", "artist", "album", "youtube_url", "spotify_url", "apple_music_url", "scraped_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT g.code, sr.rank, sr.movement, s.title, a.name, s.album,
               s.youtube_url, s.spotify_url, s.apple_music_url, sr.scraped_at
        FROM song_rankings sr
        JOIN songs s   ON s.id = sr.song_id
        JOIN artists a ON a.id = s.artist_id
        JOIN genres g  ON g.id = sr.genre_id
        WHERE sr.rank <> 0
        ORDER BY g.code, sr.rank
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			code      string
			rank      int
			movement  sql.NullString
			title     string
			artist    string
			album     sql.NullString
			yt        sql.NullString
			sp        sql.NullString
			am        sql.NullString
			scrapedAt sql.NullTime
		)
		if err := rows.Scan(&code, &rank, &movement, &title, &artist, &album, &yt, &sp, &am, &scrapedAt); err != nil {
			return err
		}

		scraped := ""
		if scrapedAt.Valid {
			scraped = scrapedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			code,
			strconv.Itoa(rank),
			movement.String,
			title,
			artist,
			album.String,
			yt.String,
			sp.String,
			am.String,
			scraped,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportLyrics(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"song_id", "title", "artist", "is_translated", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT sl.song_id, s.title, a.name, sl.is_translated, sl.updated_at
        FROM song_lyrics sl
        JOIN songs s   ON s.id = sl.song_id
        JOIN artists a ON a.id = s.artist_id
        ORDER BY sl.updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			songID     int64
			title      string
			artist     string
			translated bool
			updatedAt  sql.NullTime
		)
		if err := rows.Scan(&songID, &title, &artist, &translated, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			strconv.FormatInt(songID, 10),
			title,
			artist,
			strconv.FormatBool(translated),
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
