package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"washbooking/internal/draft"
	"washbooking/internal/repository"
	"washbooking/internal/service/booking"
	"washbooking/internal/service/catalog"
	"washbooking/internal/service/wizard"
)

// respondError translates service errors into HTTP responses. Validation
// failures carry the offending field list so clients can show them all.
func respondError(c *gin.Context, err error) {
	var validationErr *wizard.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": validationErr.Fields})
		return
	}

	var missingErr *booking.MissingFieldsError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missing_fields": missingErr.Fields})
		return
	}

	var unknownErr *catalog.UnknownServicesError
	if errors.As(err, &unknownErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "unknown_services": unknownErr.Keys})
		return
	}

	switch {
	case errors.Is(err, draft.ErrNotFound), errors.Is(err, repository.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrStepMismatch), errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSubmissionInFlight):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
