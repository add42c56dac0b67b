// Package api assembles the HTTP surface: routes, middleware, and the
// central error handler.
package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/server/api/handler"
	"github.com/mbelkin/geoauth/internal/server/api/middleware"
	"github.com/mbelkin/geoauth/internal/server/geo"
	"github.com/mbelkin/geoauth/internal/server/history"
	"github.com/mbelkin/geoauth/internal/server/users"
)

// NewRouter builds the Echo instance with all routes registered. Everything
// under /api except login and register sits behind bearer auth.
func NewRouter(log logging.Logger, userService *users.Service, historyService *history.Service, resolver geo.Resolver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	authHandler := handler.NewAuthHandler(userService)
	geoHandler := handler.NewGeoHandler(resolver)
	historyHandler := handler.NewHistoryHandler(resolver, historyService, log)
	healthHandler := handler.NewHealthHandler()

	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/api/login", authHandler.Login)
	e.POST("/api/register", authHandler.Register)

	authed := e.Group("/api", middleware.Auth(userService))
	authed.GET("/me", authHandler.Me)
	authed.GET("/geo/self", geoHandler.Self)
	authed.GET("/geo/:ip", geoHandler.ByIP)
	authed.POST("/history/search", historyHandler.Search)
	authed.GET("/history", historyHandler.List)
	authed.DELETE("/history", historyHandler.Delete)

	return e
}
