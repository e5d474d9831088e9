// Package tracing initializes the global OpenTelemetry tracer provider and
// exports spans to an OTLP gRPC collector.
package tracing

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/fileprovider/meta"
)

// InitGlobalTracer installs a global tracer provider and OTLP exporter.
// The returned function flushes and shuts them down; call it on exit.
//
// If cfg.Disable is true, a no-op tracer provider is installed.
func InitGlobalTracer(cfg Config) (func() error, error) {
	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporterAddr := net.JoinHostPort(cfg.ExporterHost, cast.ToString(cfg.ExporterPort))

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(exporterAddr),
			otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
		),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2)
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	attrs = append(attrs,
		semconv.ServiceNameKey.String(meta.ServiceNameValue()),
		semconv.ServiceVersionKey.String(meta.ServiceVersionValue()),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	otel.SetTracerProvider(tp)

	return shutdownFunc(tp), nil
}

// Tracer returns the tracer filestore decorators record spans with.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

func shutdownFunc(tp *sdktrace.TracerProvider) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(tp.Shutdown(ctx))
	}
}
