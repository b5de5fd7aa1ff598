package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/app"
	"github.com/GTDGit/gtd_ongkir/internal/config"
	"github.com/GTDGit/gtd_ongkir/internal/handler"
	"github.com/GTDGit/gtd_ongkir/internal/middleware"
	"github.com/GTDGit/gtd_ongkir/internal/repository"
	"github.com/GTDGit/gtd_ongkir/internal/service"
)

// main is the entrypoint of the shipping estimate API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting gtd ongkir api")

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	engine, err := app.NewEngine(bootCtx, cfg, app.Options{Migrate: true})
	bootCancel()
	if err != nil {
		log.Error().Err(err).Msg("engine initialization failed")
		fmt.Fprintf(os.Stderr, "engine initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	adminAuthSvc := service.NewAdminAuthService(repository.NewAdminUserRepository(engine.DB))

	handlers := &Handlers{
		Health:    handler.NewHealthHandler(engine.Index, engine.Table, pinger(engine)),
		Quote:     handler.NewQuoteHandler(engine.Quotes),
		Territory: handler.NewTerritoryHandler(engine.Index),
		Auth:      handler.NewAuthHandler(adminAuthSvc, middleware.NewRateLimiter(5, time.Minute)),
		Admin:     handler.NewAdminHandler(engine.Table, flusher(engine)),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers,
		middleware.NewRateLimiter(cfg.RateLimit.EstimatePerMinute, time.Minute),
		middleware.NewJWTMiddleware(),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

type Handlers struct {
	Health    *handler.HealthHandler
	Quote     *handler.QuoteHandler
	Territory *handler.TerritoryHandler
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
}

func setupRoutes(router *gin.Engine, handlers *Handlers, estimateLimiter *middleware.RateLimiter, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	shipping := router.Group("/v1/shipping")
	{
		shipping.POST("/estimate", estimateLimiter.Handle(), handlers.Quote.Estimate)
		shipping.GET("/services", handlers.Quote.GetServices)
	}

	territory := router.Group("/v1/territory")
	{
		territory.GET("/province", handlers.Territory.GetProvinces)
		territory.GET("/city/:province_code", handlers.Territory.GetCitiesByProvince)
		territory.GET("/district/:city_code", handlers.Territory.GetDistrictsByCity)
		territory.GET("/sub-district/:district_code", handlers.Territory.GetSubDistrictsByDistrict)
	}

	router.POST("/v1/admin/auth/login", handlers.Auth.Login)

	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.GET("/geocode/coverage", handlers.Admin.GetGeocodeCoverage)
		admin.DELETE("/cache/locations", handlers.Admin.FlushRouteCache)
	}
}

// pinger and flusher keep a nil cache a nil interface.
func pinger(e *app.Engine) handler.Pinger {
	if e.Redis == nil {
		return nil
	}
	return e.Redis
}

func flusher(e *app.Engine) handler.CacheFlusher {
	if e.RouteCache == nil {
		return nil
	}
	return e.RouteCache
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
