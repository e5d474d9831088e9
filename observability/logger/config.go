package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	// EncodingJSON writes one JSON object per entry.
	EncodingJSON = "json"
	encPretty    = "pretty"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level is the minimum level to emit: "debug", "info", "warn" or "error". Default is "info".
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`

	// Encoding is "json" for log shippers or "pretty" for a coloured terminal view
	// with indented fields. Default is "pretty".
	Encoding string `yaml:"encoding" validate:"oneof=json pretty" default:"pretty"`

	// Disable creates a no-op logger. Useful in tests. Default is false.
	Disable bool `yaml:"disable" default:"false"`
}

// getZapConfig converts the logger Config to a zap.Config.
func (c Config) getZapConfig() (*zap.Config, error) {
	zapLevel := zap.NewAtomicLevel()

	err := zapLevel.UnmarshalText([]byte(c.Level))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     messageKey,
		LevelKey:       levelKey,
		NameKey:        nameKey,
		TimeKey:        timeKey,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	zapConfig := zap.Config{
		Level:            zapLevel,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         c.Encoding,
		EncoderConfig:    encoderConfig,
	}

	return &zapConfig, nil
}
