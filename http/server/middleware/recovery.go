package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/observability/logger"
)

// NewRecoveryMW recovers from panics in the rest of the chain, logs them
// and returns a structured error for the error handler.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	base := log.Named("middleware.recovery")

	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError("panic recovered", r)
					base.WithContext(c.UserContext()).Errorx(err)
				}
			}()

			return c.Next()
		},
	}
}
