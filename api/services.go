package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washbooking/internal/domain"
	"washbooking/internal/service/catalog"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

type serviceResponse struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
}

func (h *CatalogHandler) list(c *gin.Context) {
	vehicleType := domain.VehicleType(c.Query("vehicle_type"))
	if vehicleType != "" && !vehicleType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_type"})
		return
	}

	items, err := h.service.List(c.Request.Context(), vehicleType)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]serviceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, serviceResponse{
			Key:             it.Key,
			Name:            it.Name,
			Description:     it.Description,
			Price:           it.Price.StringFixed(2),
			DurationMinutes: it.DurationMinutes,
		})
	}
	c.JSON(http.StatusOK, out)
}
