package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washbooking/internal/service/booking"
	"washbooking/internal/service/wizard"
)

type DraftHandler struct {
	wizard   wizard.WizardUseCase
	bookings booking.BookingUseCase
}

func NewDraftHandler(wizardSvc wizard.WizardUseCase, bookingSvc booking.BookingUseCase) *DraftHandler {
	return &DraftHandler{wizard: wizardSvc, bookings: bookingSvc}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.start)
	router.GET("/:id", h.get)
	router.POST("/:id/continue", h.continueStep)
	router.POST("/:id/back", h.back)
	router.POST("/:id/submit", h.submit)
	router.DELETE("/:id", h.abandon)
}

func (h *DraftHandler) start(c *gin.Context) {
	var req wizard.StartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.wizard.Start(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DraftHandler) get(c *gin.Context) {
	d, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) continueStep(c *gin.Context) {
	var req wizard.StepInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.wizard.Continue(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) back(c *gin.Context) {
	d, err := h.wizard.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type submitRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *DraftHandler) submit(c *gin.Context) {
	var req submitRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	b, err := h.bookings.Submit(c.Request.Context(), booking.SubmitInput{
		DraftID:        c.Param("id"),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(b))
}

func (h *DraftHandler) abandon(c *gin.Context) {
	if err := h.wizard.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
