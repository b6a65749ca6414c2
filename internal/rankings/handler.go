package rankings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"melonhub/internal/cache"
	"melonhub/pkg/models"
)

type Handler struct {
	Repo  *Repo
	Cache *cache.Cache // optional
}

func NewHandler(repo *Repo, c *cache.Cache) *Handler {
	return &Handler{Repo: repo, Cache: c}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.listGenres)      // GET /api/genres
	rg.GET("/rankings/:code", h.byGenre) // GET /api/rankings/GN0200
}

func (h *Handler) listGenres(c *gin.Context) {
	genres, err := h.Repo.ListGenres(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": genres})
}

func (h *Handler) byGenre(c *gin.Context) {
	code := c.Param("code")

	if h.Cache != nil {
		if v, ok := h.Cache.Get(code); ok {
			c.JSON(http.StatusOK, chartResponse(code, v.([]models.RankedSong), true))
			return
		}
	}

	_, ingested, err := h.Repo.GenreLastUpdated(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if !ingested {
		c.JSON(http.StatusNotFound, gin.H{"error": "genre not ingested yet"})
		return
	}

	songs, err := h.Repo.ListByGenre(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if h.Cache != nil {
		h.Cache.Set(code, songs)
	}
	c.JSON(http.StatusOK, chartResponse(code, songs, false))
}

func chartResponse(code string, songs []models.RankedSong, cached bool) gin.H {
	return gin.H{
		"genre":      code,
		"genre_name": models.GenreName(code),
		"cached":     cached,
		"count":      len(songs),
		"items":      songs,
	}
}
