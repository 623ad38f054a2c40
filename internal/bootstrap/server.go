package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"washbooking/api"
	"washbooking/config"
	"washbooking/internal/service/booking"
	"washbooking/internal/service/catalog"
	"washbooking/internal/service/wizard"
)

type Handlers struct {
	Wizard   wizard.WizardUseCase
	Bookings booking.BookingUseCase
	Catalog  catalog.CatalogUseCase
	Geocoder api.ReverseGeocoder
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(h),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	api.NewDraftHandler(h.Wizard, h.Bookings).Register(v1.Group("/drafts"))
	api.NewBookingHandler(h.Bookings).Register(v1.Group("/bookings"))
	api.NewCatalogHandler(h.Catalog).Register(v1.Group("/services"))
	api.NewGeocodeHandler(h.Geocoder).Register(v1.Group("/geocode"))

	return router
}
