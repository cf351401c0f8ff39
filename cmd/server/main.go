package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/database"
	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/queue"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/router"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepo(db)
	sheetRepo := repository.NewSheetRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	adminRepo := repository.NewAdministratorRepo(db)

	publisher := queue.NewPublisher(cfg.RabbitURL)

	reservations := service.NewReservationService(eventRepo, sheetRepo, reservationRepo, publisher)
	events := service.NewEventService(eventRepo)
	aggregates := service.NewAggregateService(eventRepo, sheetRepo, reservationRepo, userRepo)
	reports := service.NewReportService(reportRepo)

	// Background consumer writes the reservation activity log.  It
	// reconnects forever on its own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartActivityConsumer(cfg.RabbitURL); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, userRepo, adminRepo),
		Event:       handler.NewEventHandler(events, aggregates),
		Reservation: handler.NewReservationHandler(reservations, aggregates),
		Admin:       handler.NewAdminHandler(events, aggregates, reports),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
