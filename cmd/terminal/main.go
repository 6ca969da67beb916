package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/catalog"
	"github.com/vilamar/hostelpos/internal/checkout"
	"github.com/vilamar/hostelpos/internal/config"
	"github.com/vilamar/hostelpos/internal/directory"
	"github.com/vilamar/hostelpos/internal/handler"
	"github.com/vilamar/hostelpos/internal/intake"
	"github.com/vilamar/hostelpos/internal/room"
	"github.com/vilamar/hostelpos/internal/router"
	"github.com/vilamar/hostelpos/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()

	api := billing.New(cfg.BillingBaseURL, cfg.BillingTimeout)
	guests := directory.New(api)
	stock := catalog.New(api, cfg.CatalogCacheTTL)
	rooms := room.NewRegistry(api)
	sessions := session.NewStore()

	intakeOrch := intake.NewOrchestrator(guests, stock, api)
	checkoutOrch := checkout.NewOrchestrator(guests, rooms, api)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(api, sessions, cfg),
		Guest:    handler.NewGuestHandler(guests, rooms, api),
		Product:  handler.NewProductHandler(stock),
		Cart:     handler.NewCartHandler(sessions, stock),
		Order:    handler.NewOrderHandler(sessions, intakeOrch, api),
		Checkout: handler.NewCheckoutHandler(checkoutOrch),
		Room:     handler.NewRoomHandler(rooms),
	}, cfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("terminal service listening on %s (env=%s, billing=%s)", addr, cfg.Env, cfg.BillingBaseURL)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
