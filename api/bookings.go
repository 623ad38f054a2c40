package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"washbooking/internal/domain"
	"washbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID                  int64               `json:"id"`
	Number              string              `json:"booking_number"`
	CustomerID          string              `json:"customer_id"`
	WorkerID            string              `json:"worker_id"`
	ServiceID           string              `json:"service_id"`
	ScheduledDate       string              `json:"scheduled_date"`
	ScheduledTime       string              `json:"scheduled_time"`
	VehicleType         string              `json:"vehicle_type"`
	SelectedServices    []string            `json:"selected_services"`
	Address             string              `json:"address"`
	Coordinates         *domain.Coordinates `json:"coordinates,omitempty"`
	TotalPrice          string              `json:"total_price"`
	PaymentMethod       string              `json:"payment_method"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	EstimatedDuration   int                 `json:"estimated_duration"`
	Status              string              `json:"status"`
	PaymentState        string              `json:"payment_state"`
	CreatedAt           string              `json:"created_at"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                  b.ID,
		Number:              b.Number,
		CustomerID:          b.CustomerID,
		WorkerID:            b.WorkerID,
		ServiceID:           b.ServiceID,
		ScheduledDate:       b.ScheduledDate,
		ScheduledTime:       b.ScheduledTime,
		VehicleType:         string(b.VehicleType),
		SelectedServices:    b.SelectedServices,
		Address:             b.Address,
		Coordinates:         b.Coordinates,
		TotalPrice:          b.TotalPrice.StringFixed(2),
		PaymentMethod:       string(b.PaymentMethod),
		SpecialInstructions: b.SpecialInstructions,
		EstimatedDuration:   b.EstimatedDuration,
		Status:              string(b.Status),
		PaymentState:        string(b.PaymentState),
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:number", h.get)
	router.PATCH("/:number/status", h.updateStatus)
}

// list serves both dashboards: ?customer_id= for the customer's history,
// ?worker_id= for the worker's schedule.
func (h *BookingHandler) list(c *gin.Context) {
	customerID := c.Query("customer_id")
	workerID := c.Query("worker_id")

	var (
		bookings []domain.Booking
		err      error
	)
	switch {
	case customerID != "":
		bookings, err = h.service.ListByCustomer(c.Request.Context(), customerID)
	case workerID != "":
		bookings, err = h.service.ListByWorker(c.Request.Context(), workerID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id or worker_id query parameter is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, newBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), b.ID, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(updated))
}
