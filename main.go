package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tripstack/tripsearch/amadeus"
	"github.com/tripstack/tripsearch/bridge"
	"github.com/tripstack/tripsearch/cache"
	"github.com/tripstack/tripsearch/config"
	"github.com/tripstack/tripsearch/log"
	"github.com/tripstack/tripsearch/server"
	"github.com/tripstack/tripsearch/tools"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	log.Init()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C (SIGINT) and SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(context.Background(), "Shutdown signal received. Exiting...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, "Failed to load config: %v", err)
	}

	if cfg.Amadeus.ClientID == "" || cfg.Amadeus.ClientSecret == "" {
		log.Fatalf(ctx, "AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET must be set")
	}

	amadeusClient, err := amadeus.NewClient(
		cfg.Amadeus.ClientID, cfg.Amadeus.ClientSecret, cfg.Amadeus.Production,
		cfg.Amadeus.FlightLimit, cfg.Amadeus.HotelLimit, cfg.Amadeus.Timeout)
	if err != nil {
		log.Fatalf(ctx, "Failed to initialize Amadeus client: %v", err)
	}

	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.Host,
			Port:     cfg.Cache.Port,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			log.Fatalf(ctx, "Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		amadeusClient.Cache = redisCache
		log.Infof(ctx, "Candidate cache enabled (host: %s:%s, TTL: %v)", cfg.Cache.Host, cfg.Cache.Port, cfg.Cache.TTL)
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewFlightSearchTool(amadeusClient))
	registry.Register(tools.NewHotelSearchTool(amadeusClient))
	log.Infof(ctx, "Registered commands: %v", registry.Names())

	runner := bridge.NewRunner(cfg.Bridge.Command, cfg.Bridge.Args, time.Duration(cfg.Bridge.Timeout)*time.Second)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	server.New(registry, runner).RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		log.Info(context.Background(), "Shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		e.Shutdown(shutdownCtx)
	}()

	log.Infof(ctx, "Starting server on port %s", cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		log.Fatalf(ctx, "Server failed: %v", err)
	}
}
