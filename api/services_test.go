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
)

func newCatalogRouter(catalogMock *MockCatalog) *gin.Engine {
	router := gin.New()
	NewCatalogHandler(catalogMock).Register(router.Group("/services"))
	return router
}

func TestCatalogHandler_List(t *testing.T) {
	catalogMock := &MockCatalog{}
	router := newCatalogRouter(catalogMock)

	items := []domain.ServiceItem{
		{Key: "basic", Name: "Basic Wash", Price: decimal.NewFromInt(60), DurationMinutes: 60, Active: true},
		{Key: "deluxe", Name: "Deluxe Wash", Price: decimal.NewFromInt(140), DurationMinutes: 90, Active: true},
	}
	catalogMock.On("List", mock.Anything, domain.VehicleSUV).Return(items, nil).Once()

	w := performRequest(router, http.MethodGet, "/services/?vehicle_type=suv", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var out []serviceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "basic", out[0].Key)
	assert.Equal(t, "60.00", out[0].Price)
	assert.Equal(t, "140.00", out[1].Price)
}

func TestCatalogHandler_ListWithoutVehicleType(t *testing.T) {
	catalogMock := &MockCatalog{}
	router := newCatalogRouter(catalogMock)

	catalogMock.On("List", mock.Anything, domain.VehicleType("")).Return([]domain.ServiceItem{}, nil).Once()

	w := performRequest(router, http.MethodGet, "/services/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	catalogMock.AssertExpectations(t)
}

func TestCatalogHandler_ListInvalidVehicleType(t *testing.T) {
	catalogMock := &MockCatalog{}
	router := newCatalogRouter(catalogMock)

	w := performRequest(router, http.MethodGet, "/services/?vehicle_type=spaceship", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	catalogMock.AssertNotCalled(t, "List")
}
