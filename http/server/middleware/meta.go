package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/meta"
	"github.com/rise-and-shine/fileprovider/observability/tracing"
)

// HeaderTraceID echoes the request trace id back to the client.
const HeaderTraceID = "X-Trace-ID"

// NewMetaInjectMW puts request metadata into the user context: the trace id
// (taken from the active span, or generated), client address, user agent,
// service identity and the name of the file provider serving the request.
func NewMetaInjectMW(serviceName, serviceVersion, provider string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			traceID := tracing.GetStartingTraceID(c.UserContext())

			ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
				meta.Provider:       provider,
			})
			c.SetUserContext(ctx)
			c.Set(HeaderTraceID, traceID)

			return c.Next()
		},
	}
}
