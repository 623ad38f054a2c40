package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"washbooking/internal/domain"
	"washbooking/internal/repository"
	"washbooking/internal/service/booking"
)

func newBookingRouter(bookingMock *MockBookings) *gin.Engine {
	router := gin.New()
	NewBookingHandler(bookingMock).Register(router.Group("/bookings"))
	return router
}

func TestBookingHandler_ListByCustomer(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	bookings := []domain.Booking{
		{ID: 1, Number: "WB-1", CustomerID: "c1", TotalPrice: decimal.NewFromInt(60), Status: domain.BookingStatusPending},
		{ID: 2, Number: "WB-2", CustomerID: "c1", TotalPrice: decimal.NewFromInt(180), Status: domain.BookingStatusCompleted},
	}
	bookingMock.On("ListByCustomer", mock.Anything, "c1").Return(bookings, nil).Once()

	w := performRequest(router, http.MethodGet, "/bookings/?customer_id=c1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var out []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "WB-1", out[0].Number)
	assert.Equal(t, "60.00", out[0].TotalPrice)
	assert.Equal(t, "COMPLETED", out[1].Status)
}

func TestBookingHandler_ListByWorker(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	bookingMock.On("ListByWorker", mock.Anything, "w1").Return([]domain.Booking{}, nil).Once()

	w := performRequest(router, http.MethodGet, "/bookings/?worker_id=w1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	bookingMock.AssertNotCalled(t, "ListByCustomer")
}

func TestBookingHandler_ListRequiresFilter(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	w := performRequest(router, http.MethodGet, "/bookings/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	bookingMock.AssertNotCalled(t, "ListByCustomer")
	bookingMock.AssertNotCalled(t, "ListByWorker")
}

func TestBookingHandler_GetByNumber(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	b := &domain.Booking{ID: 1, Number: "WB-1", TotalPrice: decimal.NewFromInt(320), PaymentState: domain.PaymentStatePending}
	bookingMock.On("GetByNumber", mock.Anything, "WB-1").Return(b, nil).Once()

	w := performRequest(router, http.MethodGet, "/bookings/WB-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "320.00", body["total_price"])
	assert.Equal(t, "PENDING", body["payment_state"])
}

func TestBookingHandler_GetNotFound(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	bookingMock.On("GetByNumber", mock.Anything, "WB-MISSING").Return(nil, repository.ErrBookingNotFound).Once()

	w := performRequest(router, http.MethodGet, "/bookings/WB-MISSING", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_UpdateStatus(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	current := &domain.Booking{ID: 1, Number: "WB-1", Status: domain.BookingStatusPending}
	updated := &domain.Booking{ID: 1, Number: "WB-1", Status: domain.BookingStatusConfirmed}
	bookingMock.On("GetByNumber", mock.Anything, "WB-1").Return(current, nil).Once()
	bookingMock.On("UpdateStatus", mock.Anything, int64(1), domain.BookingStatusConfirmed).Return(updated, nil).Once()

	w := performRequest(router, http.MethodPatch, "/bookings/WB-1/status", gin.H{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "CONFIRMED", body["status"])
}

func TestBookingHandler_UpdateStatusInvalidTransition(t *testing.T) {
	bookingMock := &MockBookings{}
	router := newBookingRouter(bookingMock)

	current := &domain.Booking{ID: 1, Number: "WB-1", Status: domain.BookingStatusCompleted}
	bookingMock.On("GetByNumber", mock.Anything, "WB-1").Return(current, nil).Once()
	bookingMock.On("UpdateStatus", mock.Anything, int64(1), domain.BookingStatusConfirmed).
		Return(nil, booking.ErrInvalidTransition).Once()

	w := performRequest(router, http.MethodPatch, "/bookings/WB-1/status", gin.H{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
