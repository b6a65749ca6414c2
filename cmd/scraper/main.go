package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"melonhub/internal/cache"
	"melonhub/internal/chart"
	"melonhub/internal/enrich"
	"melonhub/internal/ingest"
	"melonhub/internal/rankings"
	"melonhub/internal/schedule"
	"melonhub/pkg/database"
	"melonhub/pkg/models"
	"melonhub/pkg/utils"
)

// One-shot ingestion: scrape a single genre (or the next one in rotation)
// and exit. Useful for cron-less setups and for backfilling a fresh db.
func main() {
	var (
		genre   = flag.String("genre", "", "genre code to ingest (empty = next in rotation)")
		timeout = flag.Duration("timeout", 10*time.Minute, "overall deadline")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	providerCfg := utils.LoadProviderConfig()
	breakers := enrich.NewBreakerSet()
	var providers []enrich.Provider
	if providerCfg.YouTubeAPIKey != "" {
		providers = append(providers, enrich.NewYouTube(providerCfg.YouTubeAPIKey))
	}
	if providerCfg.SpotifyClientID != "" && providerCfg.SpotifyClientSecret != "" {
		providers = append(providers, enrich.NewSpotify(providerCfg.SpotifyClientID, providerCfg.SpotifyClientSecret))
	}
	if providerCfg.AppleMusicToken != "" {
		providers = append(providers, enrich.NewAppleMusic(providerCfg.AppleMusicToken))
	}

	rankingsRepo := rankings.NewRepo(db)
	pipeline := &ingest.Pipeline{
		Extractor:  chart.NewExtractor(),
		Reconciler: ingest.NewReconciler(db),
		Rankings:   rankingsRepo,
		Breakers:   breakers,
		Cache:      cache.New(cache.DefaultTTL),
	}
	if len(providers) > 0 {
		pipeline.Enricher = enrich.NewOrchestrator(enrich.NewRepo(db), breakers, providers...)
	}

	if *genre != "" {
		if _, ok := models.GenreNames[*genre]; !ok {
			log.Fatalf("unknown genre code %q", *genre)
		}
		if err := pipeline.IngestGenre(ctx, *genre); err != nil {
			log.Fatalf("ingest %s failed: %v", *genre, err)
		}
		log.Printf("ingested %s (%s)", *genre, models.GenreName(*genre))
		return
	}

	scheduler := schedule.NewScheduler(models.GenreCodes, schedule.NewCursorStore(db), pipeline, rankingsRepo)
	code, err := scheduler.Tick(ctx)
	if err != nil {
		log.Fatalf("ingest %s failed: %v", code, err)
	}
	log.Printf("rotation handled %s (%s)", code, models.GenreName(code))
}
