package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktie/storefront/api"
	"github.com/blacktie/storefront/config"
	"github.com/blacktie/storefront/internal/middleware"
	"github.com/blacktie/storefront/internal/service/booking"
	"github.com/blacktie/storefront/internal/service/catalog"
	"github.com/blacktie/storefront/internal/service/hero"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const swaggerSpec = "storefront.swagger.json"

type Services struct {
	Catalog catalog.CatalogUseCase
	Booking booking.BookingUseCase
	Hero    hero.RevisionUseCase
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, svc Services) error {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, log, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	}
}

func NewRouter(cfg *config.Config, log *zap.Logger, svc Services) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewEventHandler(svc.Catalog).Register(v1.Group("/events"))
	api.NewBookingHandler(svc.Booking).Register(v1.Group("/bookings"))

	heroHandler := api.NewHeroHandler(svc.Hero)
	heroHandler.RegisterPublic(v1.Group("/hero"))

	admin := v1.Group("/admin", middleware.AdminJWT(cfg.Admin.JWTSecret))
	heroHandler.RegisterAdmin(admin.Group("/hero"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/"+swaggerSpec))))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
