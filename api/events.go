package api

import (
	"net/http"

	"github.com/blacktie/storefront/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service catalog.CatalogUseCase
}

func NewEventHandler(service catalog.CatalogUseCase) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *EventHandler) list(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) get(c *gin.Context) {
	event, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}
