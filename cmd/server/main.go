package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Neon-Gen/finovix-sub000/internal/audit"
	"github.com/Neon-Gen/finovix-sub000/internal/config"
	"github.com/Neon-Gen/finovix-sub000/internal/database"
	"github.com/Neon-Gen/finovix-sub000/internal/handler"
	"github.com/Neon-Gen/finovix-sub000/internal/payroll"
	"github.com/Neon-Gen/finovix-sub000/internal/provider"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
	"github.com/Neon-Gen/finovix-sub000/internal/router"
	"github.com/Neon-Gen/finovix-sub000/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; using in-memory code/flag stores, rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	employees := repository.NewEmployeeRepo(db)
	attendance := repository.NewAttendanceRepo(db)

	var codes session.CodeStore
	var flags session.FlagStore
	if rdb != nil {
		codes = repository.NewVerificationRepo(rdb)
		flags = repository.NewFlagRepo(rdb)
	} else {
		codes = session.NewMemoryCodeStore()
		flags = session.NewMemoryFlagStore()
	}

	sink := audit.NewPublisher()
	go func() {
		if err := audit.StartConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	authProvider := provider.NewDatabase(cfg, users, tokens)
	authenticator := session.New(authProvider, codes, sink)
	authenticator.Initialize(context.Background())
	guard := session.NewIdleGuard(authenticator, flags)

	payrollSvc := payroll.NewService(attendance, employees, sink)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authenticator, authProvider, guard), cfg.JWTSecret, rdb)
	router.RegisterPayroll(e, handler.NewEmployeeHandler(employees), handler.NewAttendanceHandler(payrollSvc, employees), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
