package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"railbook/internal/analytics"
	intconfig "railbook/internal/config"
	api "railbook/internal/http"
	"railbook/internal/http/handlers"
	"railbook/internal/repositories"
	"railbook/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	rdb := intconfig.ConnectRedis(env)
	defer rdb.Close()

	events := analytics.NewLogger(rdb)
	defer events.Close()
	routes := analytics.NewRouteStats(rdb)
	defer routes.Stop()

	bookingService := services.BookingService{
		Ledger:          repositories.SeatInventoryRepo{},
		Bookings:        repositories.BookingRepo{},
		Schedules:       repositories.ScheduleRepo{},
		Events:          events,
		MaxPassengers:   env.MaxPassengersPerBooking,
		ReserveAttempts: env.MaxReserveAttempts,
		BackoffBase:     env.ReserveBackoffBase,
		PNRAttempts:     env.PNRMaxAttempts,
	}
	scheduleService := services.ScheduleService{
		Schedules: repositories.ScheduleRepo{},
		Inventory: repositories.SeatInventoryRepo{},
		Routes:    routes,
	}

	r := api.NewRouter(api.Deps{
		Env: env,
		Auth: handlers.AuthHandler{
			Users:     repositories.UserRepo{},
			JWTSecret: []byte(env.JWTSecret),
			JWTExpiry: env.JWTExpiry,
		},
		Trains:   handlers.TrainHandler{Schedules: scheduleService},
		Bookings: handlers.BookingHandler{Bookings: bookingService, Schedules: repositories.ScheduleRepo{}},
		Analytics: handlers.AnalyticsHandler{
			Events: events,
			Routes: routes,
		},
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
