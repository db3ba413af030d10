// Package router builds the Echo instance: global middleware in order, the
// error handler, and every route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/handler"
	"github.com/miarma/api/internal/middleware"
	"github.com/miarma/api/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// The request id must exist before the logger is derived, and the
	// transaction before tracing is enhanced.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerV1Routes(v1, h)

	return router
}
