package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	shutdownTimeout    = 5 * time.Second

	// InstrumentationName is the tracer name used by filestore decorators.
	InstrumentationName = "github.com/rise-and-shine/fileprovider"
)

// Config holds the configuration for the tracing system.
type Config struct {
	// Disable turns tracing off. A no-op tracer provider is installed instead.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root traces to sample, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" validate:"gte=0,lte=1" default:"1"`

	// ExporterHost is the OTLP gRPC collector host.
	ExporterHost string `yaml:"exporter_host" validate:"required_if=Disable false"`

	// ExporterPort is the OTLP gRPC collector port.
	ExporterPort int `yaml:"exporter_port" validate:"required_if=Disable false"`

	// Tags are added as resource attributes to every span.
	Tags map[string]string `yaml:"tags"`
}
