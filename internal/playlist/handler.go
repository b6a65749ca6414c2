package playlist

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"melonhub/internal/auth"
	"melonhub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes expects rg to already carry the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)                        // POST   /playlists
	rg.GET("", h.list)                           // GET    /playlists
	rg.DELETE("/:id", h.delete)                  // DELETE /playlists/:id
	rg.GET("/:id/songs", h.listSongs)            // GET    /playlists/:id/songs
	rg.POST("/:id/songs", h.addSong)             // POST   /playlists/:id/songs
	rg.DELETE("/:id/songs/:songId", h.dropSong)  // DELETE /playlists/:id/songs/:songId
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-100 chars"})
		return
	}

	p := models.Playlist{
		ID:     uuid.NewString(),
		UserID: claims.UserID,
		Name:   req.Name,
	}
	if err := h.Repo.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	items, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// owned loads the playlist in the :id param if the caller owns it, writing
// the error response otherwise.
func (h *Handler) owned(c *gin.Context) *models.Playlist {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return nil
	}
	p, err := h.Repo.GetOwned(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return nil
	}
	return p
}

func (h *Handler) delete(c *gin.Context) {
	p := h.owned(c)
	if p == nil {
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), p.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) listSongs(c *gin.Context) {
	p := h.owned(c)
	if p == nil {
		return
	}
	songs, err := h.Repo.ListSongs(c.Request.Context(), p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": p, "items": songs})
}

type addSongReq struct {
	SongID int64 `json:"song_id"`
}

func (h *Handler) addSong(c *gin.Context) {
	p := h.owned(c)
	if p == nil {
		return
	}

	var req addSongReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SongID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "song_id required"})
		return
	}

	ok, err := h.Repo.SongExists(c.Request.Context(), req.SongID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "song not found"})
		return
	}

	if err := h.Repo.AddSong(c.Request.Context(), p.ID, req.SongID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

func (h *Handler) dropSong(c *gin.Context) {
	p := h.owned(c)
	if p == nil {
		return
	}

	songID, err := strconv.ParseInt(c.Param("songId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad song id"})
		return
	}

	removed, err := h.Repo.RemoveSong(c.Request.Context(), p.ID, songID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "song not in playlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
