package server

import (
	"net"
	"strconv"
	"time"
)

// Config defines configuration options for the HTTP server.
type Config struct {
	// HideErrorDetails hides error trace and details in responses.
	HideErrorDetails bool `yaml:"hide_error_details"`

	// Host address to bind the server to.
	Host string `yaml:"host" default:"0.0.0.0"`

	// Port number to listen on (required).
	Port int `yaml:"port" validate:"required,min=1,max=65535"`

	// ReadTimeout is a maximum duration for reading the entire request. Default is 30 seconds,
	// large uploads need the headroom.
	ReadTimeout time.Duration `yaml:"read_timeout" default:"30s"`

	// WriteTimeout is a maximum duration before timing out writes of the response. Default is 30 seconds.
	WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`

	// IdleTimeout is a maximum amount of time to wait for the next request. Default is 120 seconds.
	IdleTimeout time.Duration `yaml:"idle_timeout" default:"120s"`

	// HandleTimeout bounds a single request, provider calls included. Default is 60 seconds.
	HandleTimeout time.Duration `yaml:"handle_timeout" default:"60s"`

	// BodyLimit is the maximum request body size in bytes. Default is 32MB.
	BodyLimit int `yaml:"body_limit" default:"33554432"`
}

// Address returns the listen address in the form "host:port".
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
