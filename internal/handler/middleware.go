package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/metrics"
)

// RequestLogger logs one zerolog event per request and counts it.
func RequestLogger(log *logger.Logger) fiber.Handler {
	zl := log.Zerolog()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		event := zl.Info()
		if status >= fiber.StatusInternalServerError {
			event = zl.Error().Err(err)
		} else if status >= fiber.StatusBadRequest {
			event = zl.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("query", string(c.Request().URI().QueryString())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")

		return err
	}
}
