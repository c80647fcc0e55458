package engine

import (
	"errors"
	"fmt"

	"github.com/LerianStudio/payments-engine/payments"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	libZap "github.com/LerianStudio/payments-engine/payments/zap"
)

// ErrInvalidWorkers is returned when PAYMENTS_WORKERS is out of range.
var ErrInvalidWorkers = errors.New("workers must be between 1 and 256")

// Config holds run settings. Every field can be set from the environment.
type Config struct {
	EnvName         string `env:"ENV_NAME" json:"env_name" validate:"oneof=production staging uat development local"`
	LogLevel        string `env:"LOG_LEVEL" json:"log_level" validate:"omitempty,log_level"`
	StrictInput     bool   `env:"PAYMENTS_STRICT_INPUT" json:"strict_input"`
	Workers         int    `env:"PAYMENTS_WORKERS" json:"workers" validate:"min=1,max=256"`
	OTelLibraryName string `env:"OTEL_LIBRARY_NAME" json:"otel_library_name" validate:"required"`

	EnableTelemetry   bool   `env:"ENABLE_TELEMETRY" json:"enable_telemetry"`
	CollectorEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" json:"collector_endpoint" validate:"required_if=EnableTelemetry true"`
	ServiceVersion    string `env:"OTEL_RESOURCE_SERVICE_VERSION" json:"service_version"`
}

// DefaultConfig returns the settings used when no variable is set.
func DefaultConfig() Config {
	return Config{
		EnvName:         string(libZap.EnvironmentProduction),
		Workers:         1,
		OTelLibraryName: "payments-engine",
		ServiceVersion:  "dev",
	}
}

// LoadConfig overlays the environment on DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if err := payments.SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the `validate` rules of every field and returns the first
// failure, named after its environment variable.
func (c Config) Validate() error {
	return validateConfig(c)
}

// Production reports whether stack traces and panic details should be redacted.
func (c Config) Production() bool {
	return libZap.Environment(c.EnvName) == libZap.EnvironmentProduction
}

// LoggerConfig maps c onto the zap logger settings.
func (c Config) LoggerConfig() libZap.Config {
	return libZap.Config{
		Environment:     libZap.Environment(c.EnvName),
		Level:           c.LogLevel,
		OTelLibraryName: c.OTelLibraryName,
	}
}

// TelemetryConfig maps c onto the OpenTelemetry provider settings.
func (c Config) TelemetryConfig() opentelemetry.TelemetryConfig {
	return opentelemetry.TelemetryConfig{
		LibraryName:       c.OTelLibraryName,
		ServiceVersion:    c.ServiceVersion,
		DeploymentEnv:     c.EnvName,
		CollectorEndpoint: c.CollectorEndpoint,
		Enabled:           c.EnableTelemetry,
	}
}
