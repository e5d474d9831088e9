package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/observability/tracing"
)

// NewTracingMW starts a server span per request. The span is renamed to
// "<method> <route>" once routing has happened.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			ctx, span := tracing.Tracer().Start(c.UserContext(), c.Method()+" /",
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			c.SetUserContext(ctx)

			err := c.Next()

			route := c.Route().Path
			if route != "" && route != "/" {
				span.SetName(c.Method() + " " + route)
			}

			span.SetAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(route),
				semconv.URLPathKey.String(c.Path()),
				semconv.HTTPResponseStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
