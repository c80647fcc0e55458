package zap

import (
	"errors"
	"fmt"
	"strings"

	logpkg "github.com/LerianStudio/payments-engine/payments/log"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentUAT         Environment = "uat"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// verbose reports whether the environment logs at debug by default.
func (e Environment) verbose() bool {
	return e == EnvironmentDevelopment || e == EnvironmentLocal
}

func (e Environment) known() bool {
	switch e {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentUAT, EnvironmentDevelopment, EnvironmentLocal:
		return true
	}

	return false
}

// Config holds logger initialization inputs. Logs always go to stderr
// because stdout carries the account snapshot.
type Config struct {
	Environment     Environment
	Level           string
	OTelLibraryName string
}

// New builds a JSON logger on stderr, teed into the OpenTelemetry log bridge
// under cfg.OTelLibraryName.
func New(cfg Config) (*Logger, error) {
	if strings.TrimSpace(cfg.OTelLibraryName) == "" {
		return nil, errors.New("invalid zap config: OTelLibraryName is required")
	}

	if !cfg.Environment.known() {
		return nil, fmt.Errorf("invalid zap config: invalid environment %q", cfg.Environment)
	}

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}

	zc := buildConfigByEnvironment(cfg.Environment)
	zc.Level = level

	bridge := otelzap.NewCore(cfg.OTelLibraryName)

	built, err := zc.Build(
		zap.AddCallerSkip(1),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, bridge)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{base: built, level: level}, nil
}

func resolveLevel(cfg Config) (zap.AtomicLevel, error) {
	if strings.TrimSpace(cfg.Level) == "" {
		if cfg.Environment.verbose() {
			return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
		}

		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	parsed, err := logpkg.ParseLevel(cfg.Level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", cfg.Level, err)
	}

	return zap.NewAtomicLevelAt(toZapLevel(parsed)), nil
}

func buildConfigByEnvironment(environment Environment) zap.Config {
	zc := zap.NewProductionConfig()
	if environment.verbose() {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Encoding = "json"
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	return zc
}
