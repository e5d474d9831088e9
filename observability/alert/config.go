package alert

import "time"

// Config defines how internal errors are reported to Sentinel.
type Config struct {
	// Enable turns on reporting. When false every report is dropped.
	Enable bool `yaml:"enable"`

	// SentinelHost is the hostname or IP address of the Sentinel service.
	SentinelHost string `yaml:"sentinel_host" validate:"required_if=Enable true"`

	// SentinelPort is the port number of the Sentinel service.
	SentinelPort int `yaml:"sentinel_port" validate:"required_if=Enable true"`

	// SendTimeout bounds a single report. Default is 3 seconds.
	SendTimeout time.Duration `yaml:"send_timeout" default:"3s"`
}
