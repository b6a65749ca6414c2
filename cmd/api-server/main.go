package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"melonhub/internal/auth"
	"melonhub/internal/cache"
	"melonhub/internal/chart"
	"melonhub/internal/enrich"
	"melonhub/internal/ingest"
	"melonhub/internal/live"
	"melonhub/internal/lyrics"
	"melonhub/internal/playlist"
	"melonhub/internal/rankings"
	"melonhub/internal/schedule"
	"melonhub/pkg/database"
	"melonhub/pkg/models"
	"melonhub/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Live event fan-out (TCP + WebSocket)
	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub))
	tcpSrv := live.NewServer(":7070", hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Enrichment providers; an empty credential disables that provider
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
	if len(providers) == 0 {
		log.Println("no provider credentials configured, enrichment disabled")
	}

	chartCache := cache.New(cache.DefaultTTL)
	rankingsRepo := rankings.NewRepo(db)

	pipeline := &ingest.Pipeline{
		Extractor:  chart.NewExtractor(),
		Reconciler: ingest.NewReconciler(db),
		Rankings:   rankingsRepo,
		Breakers:   breakers,
		Cache:      chartCache,
		Hub:        hub,
	}
	if len(providers) > 0 {
		pipeline.Enricher = enrich.NewOrchestrator(enrich.NewRepo(db), breakers, providers...)
	}

	// Public read path
	api := router.Group("/api")
	rankings.NewHandler(rankingsRepo, chartCache).RegisterRoutes(api)

	lyricsRepo := lyrics.NewRepo(db)
	lyricsResolver := lyrics.NewResolver(lyricsRepo, lyrics.NewGeniusSource(), lyrics.NewMelonSource())
	lyrics.NewHandler(lyricsRepo, lyricsResolver).RegisterRoutes(api)

	// Rotation scheduler + trigger surface
	scheduler := schedule.NewScheduler(
		models.GenreCodes,
		schedule.NewCursorStore(db),
		pipeline,
		rankingsRepo,
	)
	schedule.NewHandler(scheduler, pipeline, providerCfg.CronSecret).RegisterRoutes(api)

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokens := auth.Tokens{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	auth.NewHandler(authRepo, tokens).RegisterRoutes(router.Group("/auth"))

	// Playlists (protected)
	protected := router.Group("/playlists")
	protected.Use(auth.Middleware(tokens, authRepo))
	playlist.NewHandler(playlist.NewRepo(db)).RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	rootCtx, stopScheduler := context.WithCancel(context.Background())

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(rootCtx, scheduleInterval())
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}

func scheduleInterval() time.Duration {
	if v := os.Getenv("MELONHUB_SCHEDULE_INTERVAL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			return time.Duration(m) * time.Minute
		}
	}
	return 15 * time.Minute
}
