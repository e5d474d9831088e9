package middleware

import (
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/meta"
	"github.com/rise-and-shine/fileprovider/observability/alert"
	"github.com/rise-and-shine/fileprovider/observability/logger"
)

// NewAlertingMW reports internal errors to provider. Other error types are
// expected outcomes (bad input, missing files) and are not reported.
// Reports are sent in the background so the response is not delayed.
func NewAlertingMW(log logger.Logger, provider alert.Provider) server.Middleware {
	base := log.Named("middleware.alerting")

	return server.Middleware{
		Priority: 600,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			e := errx.AsErrorX(err)
			if e.Type() != errx.T_Internal {
				return err
			}

			ctx := c.UserContext()
			operation := c.Method() + " " + c.Route().Path

			details := map[string]string{"error_trace": e.Trace()}
			for k, v := range meta.ExtractMetaFromContext(ctx) {
				details[string(k)] = v
			}

			go func() {
				if sendErr := provider.SendError(ctx, e.Code(), e.Error(), operation, details); sendErr != nil {
					base.WithContext(ctx).With("alert_send_error", sendErr.Error()).Warn("failed to send alert")
				}
			}()

			return err
		},
	}
}
