package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
)

// NewTimeoutMW bounds the request context by duration, provider calls included.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: 800,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
