package api

import (
	"log"
	stdhttp "net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "railbook/internal/config"
	h "railbook/internal/http/handlers"
	"railbook/internal/http/middleware"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Env       intconfig.Env
	Auth      h.AuthHandler
	Trains    h.TrainHandler
	Bookings  h.BookingHandler
	Analytics h.AnalyticsHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(corsConfig()))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthRequired([]byte(d.Env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/profile", authRequired, d.Auth.Profile)

		trains := api.Group("/trains", authRequired)
		trains.POST("", middleware.RequireAdmin(), d.Trains.Create)
		trains.GET("/search", middleware.APIEvents(d.Analytics.Events, "trains.search"), d.Trains.Search)
		trains.GET("/schedules/:id/availability", d.Trains.Availability)

		bookings := api.Group("/bookings", authRequired)
		bookings.POST("", d.Bookings.Create)
		bookings.GET("", d.Bookings.MyBookings)
		bookings.GET("/:pnr", d.Bookings.ByPNR)
		bookings.GET("/:pnr/ticket", d.Bookings.TicketPDF)

		stats := api.Group("/analytics", authRequired)
		stats.GET("/top-routes", d.Analytics.TopRoutes)
		stats.GET("/events", middleware.RequireAdmin(), d.Analytics.RecentEvents)
		stats.GET("/stats", middleware.RequireAdmin(), d.Analytics.Stats)
	}

	return r
}

func corsConfig() cors.Config {
	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if env := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); env != "" {
		origins = origins[:0]
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 24 * time.Hour
	return cfg
}
