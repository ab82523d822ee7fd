package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskflow/internal/handler"
	"taskflow/internal/metrics"
)

// Register wires middleware and routes. guard protects every route except user registration.
func Register(
	e *echo.Echo,
	logger *slog.Logger,
	guard echo.MiddlewareFunc,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(Metrics())
	e.Use(RequestLogger(logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"panic", err,
				"stack", string(stack))
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(string) (bool, error) { return true, nil },
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/registry", userHandler.Create)

	// Secured routes (require a bearer token)
	secured := api.Group("", guard)

	secured.GET("/users/me", userHandler.Me)
	secured.PATCH("/users/:id/update", userHandler.Update)
	secured.DELETE("/users/:id/delete", userHandler.Delete)
	secured.GET("/users/search", userHandler.Search)
	secured.GET("/users/:id/search", userHandler.SearchByID)

	secured.POST("/tasks/registry", taskHandler.Create)
	secured.PATCH("/tasks/:id/update", taskHandler.Update)
	secured.DELETE("/tasks/:id/delete", taskHandler.Delete)
	secured.GET("/tasks/search", taskHandler.Search)
}

// RequestLogger logs each request with request_id, method, route, status and latency.
// Errors are rendered by the error handler first so the logged status is final.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.Int64("duration_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	})
}

// Metrics records duration and count per route. Unmatched paths share one label.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRequest(c.Request().Method, route, c.Response().Status, time.Since(start).Seconds())
			return err
		}
	}
}
