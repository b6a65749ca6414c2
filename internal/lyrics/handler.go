package lyrics

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo     *Repo
	Resolver *Resolver
}

func NewHandler(repo *Repo, resolver *Resolver) *Handler {
	return &Handler{Repo: repo, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lyrics", h.get) // GET /api/lyrics?title=...&artist=...
}

func (h *Handler) get(c *gin.Context) {
	title := c.Query("title")
	artist := c.Query("artist")
	if title == "" || artist == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title or artist parameter"})
		return
	}

	song, err := h.Repo.FindSong(c.Request.Context(), title, artist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if song == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "song not found"})
		return
	}

	text, err := h.Resolver.Resolve(c.Request.Context(), *song)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lyrics not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":  song.Title,
		"artist": song.Artist,
		"lyrics": text,
	})
}
