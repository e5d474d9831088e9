package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/observability/logger"
)

// NewLoggerMW logs every request. The level follows the status code:
// info for 2xx/3xx, warn for 4xx, error for 5xx.
func NewLoggerMW(log logger.Logger) server.Middleware {
	base := log.Named("middleware.logger")

	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := c.Next()

			statusCode := c.Response().StatusCode()
			log := base.WithContext(c.UserContext()).With(
				"http_status_code", statusCode,
				"http_method", c.Method(),
				"http_path", c.Path(),
				"http_route", c.Route().Path,
				"duration", time.Since(start),
				"request_size", c.Request().Header.ContentLength(),
			)

			if err != nil {
				e := errx.AsErrorX(err)
				log = log.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= fiber.StatusInternalServerError:
				log.Error("request failed")
			case statusCode >= fiber.StatusBadRequest:
				log.Warn("request rejected")
			default:
				log.Info("request processed successfully")
			}

			return err
		},
	}
}
