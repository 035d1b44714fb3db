package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/avolkov/city-weather/internal/config"
	"github.com/avolkov/city-weather/internal/geo"
	"github.com/avolkov/city-weather/internal/history"
	"github.com/avolkov/city-weather/internal/httpcache"
	"github.com/avolkov/city-weather/internal/scheduler"
	"github.com/avolkov/city-weather/internal/weather"
	"github.com/avolkov/city-weather/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The store owns its schema and will re-check before every operation,
	// but creating the tables eagerly keeps the first request cheap.
	store := history.New(cfg.DBPath)
	if err := store.EnsureSchema(); err != nil {
		log.Fatalf("failed to prepare database: %v", err)
	}

	// Outbound forecast calls go through a cached transport backed by the
	// same SQLite file.
	cache := httpcache.New(cfg.DBPath, cfg.CacheTTL, nil)
	forecasts := weather.NewClient(&http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: cache,
	})

	var geocoder geo.Geocoder = geo.NewNominatim(
		&http.Client{Timeout: cfg.HTTPTimeout},
		cfg.GeocoderUserAgent,
	)
	if cfg.GoogleAPIKey != "" {
		geocoder = geo.NewGoogle(cfg.GoogleAPIKey)
	}

	// Periodic cache maintenance.
	maint := scheduler.New(cfg.CachePruneInterval, cache.PruneExpired)
	if err := maint.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer maint.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "city-weather",
		DisableStartupMessage: true,
		Views:                 web.NewEngine(),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Printf("request failed: %v, code: %d", err, code)
			return c.Status(code).SendString("An error occurred: " + err.Error())
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "city-weather",
		})
	})

	// Icons and scripts live next to the binary; the handlers only emit
	// their relative paths.
	app.Static("/static", "./static")

	handler := web.NewHandler(geocoder, forecasts, store)
	handler.RegisterRoutes(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
