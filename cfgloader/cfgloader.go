// Package cfgloader loads and validates configuration at the start of an application.
package cfgloader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/fileprovider/val"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	// CodeInvalidConfig is returned for any loading or validation failure.
	CodeInvalidConfig = "INVALID_CONFIG"

	envVariable = "ENVIRONMENT"
)

// MustLoad loads configuration with Load and exits the process on failure.
//
// The file is ${ENVIRONMENT}.yaml inside the config directory ("./config" by
// default). ${VAR} references in the file are expanded from the environment,
// which is first populated from a .env file when present.
//
// Fields use `yaml` tags for mapping, `default` tags for values applied when
// the file leaves them unset, and `validate` tags checked by go-playground/validator.
// Fields tagged `mask:"true"` are masked when the loaded config is printed.
//
// Example:
//
//	type Config struct {
//	    Host      string `yaml:"host" validate:"required"`
//	    Port      int    `yaml:"port" default:"8080"`
//	    APISecret string `yaml:"api_secret" validate:"required" mask:"true"`
//	}
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		slog.Error("[cfgloader]: " + err.Error())
		os.Exit(1)
	}
	return config
}

// Load reads, expands, decodes, defaults and validates configuration of type T.
// T must not be a pointer type.
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := Options{ConfigDir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Ptr {
		return config, configError("arg config must not be a pointer", nil)
	}

	_ = godotenv.Load()

	env := os.Getenv(envVariable)
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return config, configError(
			"ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.D{"environment": env},
		)
	}

	path := filepath.Join(o.ConfigDir, env+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, configError("config file not found", errx.D{"path": path})
	}
	if err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, configError(
			fmt.Sprintf("failed to unmarshal %s config file", env),
			errx.D{"path": path, "error": err.Error()},
		)
	}

	if err = defaults.Set(&config); err != nil {
		return config, configError("failed to set default values", errx.D{"error": err.Error()})
	}

	if err = validateConfig(&config); err != nil {
		return config, configError(
			fmt.Sprintf("invalid fields in %s config -> %s", env, err.Error()),
			nil,
		)
	}

	if !o.Silent {
		printConfig(config)
	}

	return config, nil
}

func validateConfig(config any) error {
	err := val.Validator().Struct(config)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	failedFields := make([]string, 0, len(errs))
	for _, fe := range errs {
		tagErr := fe.Tag()
		if fe.Param() != "" {
			tagErr += "=" + fe.Param()
		}
		failedFields = append(failedFields, fmt.Sprintf("%s: %s", fe.Namespace(), tagErr))
	}
	return errors.New(strings.Join(failedFields, ",  "))
}

func configError(msg string, details errx.D) error {
	if details == nil {
		details = errx.D{}
	}
	return errx.New(
		msg,
		errx.WithCode(CodeInvalidConfig),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(details),
	)
}
