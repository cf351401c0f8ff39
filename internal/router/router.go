// Package router wires the HTTP routes to their handlers and applies
// the middleware stack per route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Event       *handler.EventHandler
	Reservation *handler.ReservationHandler
	Admin       *handler.AdminHandler
}

// Register mounts all routes.  rdb may be nil, which disables the
// cache and rate-limit middleware.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Login endpoints carry no token yet, only the rate limiter.
	e.POST("/v1/auth/login", h.Auth.Login, limiter)
	e.POST("/v1/admin/login", h.Auth.AdminLogin, limiter)

	// Public browsing.  The optional JWT personalizes the seat map
	// ("mine" markers) without requiring a login, so the event detail
	// stays out of the shared cache.
	e.GET("/v1/events", h.Event.ListEvents, cache)
	e.GET("/v1/events/:id", h.Event.GetEvent, middleware.OptionalJWTAuth(cfg.JWTSecret))

	// Authenticated user routes.
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole("USER"))
	user.GET("/me", h.Reservation.Me)
	user.POST("/events/:id/reserve", h.Reservation.Reserve, limiter)
	user.DELETE("/events/:id/sheets/:rank/:num/reservation", h.Reservation.Cancel, limiter)

	// Administrator routes.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.GET("/events", h.Admin.ListEvents)
	admin.POST("/events", h.Admin.CreateEvent, limiter)
	admin.GET("/events/:id", h.Admin.GetEvent)
	admin.POST("/events/:id/actions/edit", h.Admin.EditEvent, limiter)
	admin.GET("/reports/events/:id/sales", h.Admin.EventSales)
	admin.GET("/reports/sales", h.Admin.AllSales)
}
