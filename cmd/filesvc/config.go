package main

import (
	"github.com/rise-and-shine/fileprovider/filestore/cloudinarywr"
	"github.com/rise-and-shine/fileprovider/filestore/miniowr"
	"github.com/rise-and-shine/fileprovider/http/server"
	"github.com/rise-and-shine/fileprovider/observability/alert"
	"github.com/rise-and-shine/fileprovider/observability/logger"
	"github.com/rise-and-shine/fileprovider/observability/tracing"
)

// Config is the file service configuration, loaded from ${ENVIRONMENT}.yaml.
type Config struct {
	ServiceName    string `yaml:"service_name" default:"filesvc"`
	ServiceVersion string `yaml:"service_version" default:"dev"`

	Logger  logger.Config  `yaml:"logger"`
	Tracing tracing.Config `yaml:"tracing"`
	HTTP    server.Config  `yaml:"http"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Alert   alert.Config   `yaml:"alert"`

	// Provider selects the storage backend by its identifier.
	Provider string `yaml:"provider" validate:"required,oneof=cloudinary minio"`

	Cloudinary *cloudinarywr.Options `yaml:"cloudinary" validate:"required_if=Provider cloudinary"`
	Minio      *miniowr.Config       `yaml:"minio" validate:"required_if=Provider minio"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Disable   bool   `yaml:"disable"`
	Namespace string `yaml:"namespace" default:"filestore"`
	Path      string `yaml:"path" default:"/metrics"`
}
