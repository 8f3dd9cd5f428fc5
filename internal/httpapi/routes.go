package httpapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arloliu/ringq/logger"
)

// NewServer creates an echo instance with the queue routes of h registered.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(requestLogger(h.logger))

	RegisterRoutes(e, h)

	return e
}

func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/queues", h.List)
	e.GET("/queues/:name", h.Stats)
	e.DELETE("/queues/:name", h.Delete)
	e.POST("/queues/:name/messages", h.Enqueue)
	e.GET("/queues/:name/messages/head", h.Peek)
	e.DELETE("/queues/:name/messages/head", h.Dequeue)
	e.PUT("/queues/:name/capacity", h.SetCapacity)
	e.POST("/queues/:name/reclaim", h.Reclaim)
	e.POST("/queues/:name/copy", h.Copy)
}

func requestLogger(l logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			l.Debug("http request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"elapsed", time.Since(start),
			)
			return nil
		}
	}
}
