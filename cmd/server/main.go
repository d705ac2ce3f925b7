package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kindredpm/repair-booking/internal/cache"
	"github.com/kindredpm/repair-booking/internal/config"
	"github.com/kindredpm/repair-booking/internal/database"
	"github.com/kindredpm/repair-booking/internal/handler"
	"github.com/kindredpm/repair-booking/internal/middleware"
	"github.com/kindredpm/repair-booking/internal/notifier"
	"github.com/kindredpm/repair-booking/internal/queue"
	"github.com/kindredpm/repair-booking/internal/repository"
	"github.com/kindredpm/repair-booking/internal/router"
	"github.com/kindredpm/repair-booking/internal/service"
)

func main() {
	// .env is optional; in production the environment is set directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	store := repository.NewBookingStore(db)
	gateway := notifier.NewEmailGateway(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	svc := service.NewBookingService(store, gateway, true)

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: availability cache and rate limiting disabled")
	}
	avail := cache.NewAvailability(rdb, cfg.CacheTTL)

	// Audit-log consumer for repair lifecycle events.
	go queue.StartRepairConsumer()

	e := echo.New()
	e.Use(middleware.RateLimit(rdb, cfg.RateLimit, cfg.RateWin))
	router.RegisterRoutes(e, handler.NewBookingHandler(svc, avail))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
