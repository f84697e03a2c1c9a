package api

import (
	"net/http"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type startBookingRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type completeResponse struct {
	Session *booking.SessionView   `json:"session"`
	Order   *domain.ConfirmedOrder `json:"order,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.abandon)
	router.POST("/:id/advance", h.advance)
	router.POST("/:id/retreat", h.retreat)
	router.POST("/:id/complete", h.complete)
	router.PUT("/:id/quantity", h.setQuantity)
	router.PATCH("/:id/contact", h.updateContact)
	router.PATCH("/:id/payment", h.updatePayment)
}

func (h *BookingHandler) start(c *gin.Context) {
	var req startBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Start(c.Request.Context(), req.EventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *BookingHandler) get(c *gin.Context) {
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.Get(c.Request.Context(), id)
	})
}

func (h *BookingHandler) advance(c *gin.Context) {
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.Advance(c.Request.Context(), id)
	})
}

func (h *BookingHandler) retreat(c *gin.Context) {
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.Retreat(c.Request.Context(), id)
	})
}

func (h *BookingHandler) setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.SetQuantity(c.Request.Context(), id, *req.Quantity)
	})
}

func (h *BookingHandler) updateContact(c *gin.Context) {
	var patch domain.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.UpdateContact(c.Request.Context(), id, patch)
	})
}

func (h *BookingHandler) updatePayment(c *gin.Context) {
	var patch domain.PaymentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func(id string) (*booking.SessionView, error) {
		return h.service.UpdatePayment(c.Request.Context(), id, patch)
	})
}

// complete answers 200 with the order when the session confirmed, and 409
// with the unchanged session when it was not yet at the payment step.
func (h *BookingHandler) complete(c *gin.Context) {
	view, order, err := h.service.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusConflict, completeResponse{Session: view})
		return
	}
	c.JSON(http.StatusOK, completeResponse{Session: view, Order: order})
}

func (h *BookingHandler) abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respond(c *gin.Context, fn func(id string) (*booking.SessionView, error)) {
	view, err := fn(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
