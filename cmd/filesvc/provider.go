package main

import (
	"github.com/code19m/errx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/filestore/cloudinarywr"
	"github.com/rise-and-shine/fileprovider/filestore/metricswr"
	"github.com/rise-and-shine/fileprovider/filestore/miniowr"
	"github.com/rise-and-shine/fileprovider/filestore/tracingwr"
	"github.com/rise-and-shine/fileprovider/observability/logger"
	"github.com/rise-and-shine/fileprovider/observability/tracing"
)

// newProvider builds the backend named by cfg.Provider.
func newProvider(cfg Config, log logger.Logger) (filestore.Provider, error) {
	switch cfg.Provider {
	case cloudinarywr.Identifier:
		if cfg.Cloudinary == nil {
			return nil, missingSection(cfg.Provider)
		}
		p, err := cloudinarywr.New(*cfg.Cloudinary, log)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return p, nil

	case miniowr.Identifier:
		if cfg.Minio == nil {
			return nil, missingSection(cfg.Provider)
		}
		p, err := miniowr.New(*cfg.Minio, log)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return p, nil

	default:
		return nil, errx.New(
			"unknown file provider",
			errx.WithCode(filestore.CodeUnknownProvider),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"provider": cfg.Provider}),
		)
	}
}

// decorate wraps p with metrics and then tracing, so spans cover the metric recording too.
func decorate(p filestore.Provider, cfg MetricsConfig, reg prometheus.Registerer) (filestore.Provider, error) {
	if !cfg.Disable {
		m, err := metricswr.New(p, cfg.Namespace, reg)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		p = m
	}
	return tracingwr.New(p, tracing.Tracer()), nil
}

func missingSection(provider string) error {
	return errx.New(
		"provider section is missing from config",
		errx.WithCode(filestore.CodeInvalidOptions),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"provider": provider}),
	)
}
