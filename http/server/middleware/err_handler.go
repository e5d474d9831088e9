package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
)

// NewErrorHandlerMW writes errors returned by handlers as JSON responses.
// When hideDetails is false the error trace and details are included.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// already handled
			if c.Response() != nil && c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
