package schedule

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"melonhub/pkg/models"
)

// Handler exposes the trigger surface: an authenticated "ingest next
// genre" hook for an external cron, and an on-demand "ingest this genre"
// refresh. Both answer 202 and do the work in the background; a browser
// scrape takes far longer than any sane request timeout.
type Handler struct {
	Scheduler *Scheduler
	Ingestor  Ingestor
	// CronSecret guards the cron hook. Empty means the hook is open, which
	// is only acceptable in local development.
	CronSecret string
	// Timeout bounds one background cycle.
	Timeout time.Duration
}

func NewHandler(s *Scheduler, ing Ingestor, cronSecret string) *Handler {
	return &Handler{
		Scheduler:  s,
		Ingestor:   ing,
		CronSecret: cronSecret,
		Timeout:    10 * time.Minute,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cron/tick", h.tick)         // POST /api/cron/tick
	rg.POST("/scrape/:code", h.scrapeNow) // POST /api/scrape/GN0200
}

func (h *Handler) tick(c *gin.Context) {
	if h.CronSecret != "" && c.GetHeader("X-Cron-Secret") != h.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad cron secret"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
		defer cancel()
		if code, err := h.Scheduler.Tick(ctx); err != nil {
			log.Printf("[schedule] cron tick for %s: %v", code, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "tick scheduled"})
}

func (h *Handler) scrapeNow(c *gin.Context) {
	code := c.Param("code")
	if _, ok := models.GenreNames[code]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown genre code"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
		defer cancel()
		if err := h.Ingestor.IngestGenre(ctx, code); err != nil {
			log.Printf("[schedule] on-demand ingest %s: %v", code, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "scrape scheduled", "genre": code})
}
