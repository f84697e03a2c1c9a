package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/service/hero"
	"github.com/gin-gonic/gin"
)

type HeroHandler struct {
	service hero.RevisionUseCase
}

type saveMediaRequest struct {
	URL string `json:"url" binding:"required"`
}

type historyEntryRequest struct {
	Type    string    `json:"type" binding:"required"`
	URL     string    `json:"url" binding:"required"`
	SavedAt time.Time `json:"savedAt" binding:"required"`
}

func (r historyEntryRequest) entry() (domain.HeroHistoryEntry, error) {
	mt, err := domain.ParseMediaType(r.Type)
	if err != nil {
		return domain.HeroHistoryEntry{}, err
	}
	return domain.HeroHistoryEntry{Type: mt, URL: r.URL, SavedAt: r.SavedAt}, nil
}

func NewHeroHandler(service hero.RevisionUseCase) *HeroHandler {
	return &HeroHandler{service: service}
}

// RegisterPublic mounts the read-only current media endpoint.
func (h *HeroHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("", h.current)
}

// RegisterAdmin mounts the history management endpoints.
func (h *HeroHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.PUT("/:type", h.save)
	router.GET("/history", h.history)
	router.POST("/history/restore", h.restore)
	router.DELETE("/history", h.delete)
}

func (h *HeroHandler) current(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Current(c.Request.Context()))
}

func (h *HeroHandler) save(c *gin.Context) {
	mt, err := domain.ParseMediaType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req saveMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.SaveCurrent(c.Request.Context(), mt, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "entry": entry})
}

func (h *HeroHandler) history(c *gin.Context) {
	filter, err := domain.ParseHistoryFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := slices.Collect(h.service.List(c.Request.Context(), filter))
	if entries == nil {
		entries = []domain.HeroHistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *HeroHandler) restore(c *gin.Context) {
	entry, ok := h.bindEntry(c)
	if !ok {
		return
	}
	if err := h.service.Restore(c.Request.Context(), entry); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "current": h.service.Current(c.Request.Context())})
}

func (h *HeroHandler) delete(c *gin.Context) {
	entry, ok := h.bindEntry(c)
	if !ok {
		return
	}
	removed, err := h.service.Delete(c.Request.Context(), entry)
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HeroHandler) bindEntry(c *gin.Context) (domain.HeroHistoryEntry, bool) {
	var req historyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.HeroHistoryEntry{}, false
	}
	entry, err := req.entry()
	if err != nil {
		writeError(c, err)
		return domain.HeroHistoryEntry{}, false
	}
	return entry, true
}
