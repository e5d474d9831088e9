// Package alert reports internal errors of the file service to Sentinel.
package alert

import (
	"context"

	"github.com/code19m/errx"
)

// Provider sends error reports.
type Provider interface {
	// SendError reports an error that happened while running operation.
	SendError(ctx context.Context, errCode, msg, operation string, details map[string]string) error

	// Close releases the connection, if any.
	Close() error
}

// NewProvider returns a Sentinel backed provider, or a no-op one unless cfg.Enable is set.
func NewProvider(cfg Config, serviceName, serviceVersion string) (Provider, error) {
	if !cfg.Enable {
		return NoopProvider{}, nil
	}

	p, err := newSentinelProvider(cfg, serviceName, serviceVersion)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return p, nil
}

// NoopProvider drops every report.
type NoopProvider struct{}

func (NoopProvider) SendError(context.Context, string, string, string, map[string]string) error {
	return nil
}

func (NoopProvider) Close() error {
	return nil
}
