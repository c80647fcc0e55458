//go:build unit

package zap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing library name", cfg: Config{Environment: EnvironmentProduction}, wantErr: "OTelLibraryName is required"},
		{name: "unknown environment", cfg: Config{Environment: Environment("banana"), OTelLibraryName: "payments-engine"}, wantErr: "invalid environment"},
		{name: "bad level", cfg: Config{Environment: EnvironmentProduction, OTelLibraryName: "payments-engine", Level: "loud"}, wantErr: "invalid level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefaultLevelByEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  Environment
		want zapcore.Level
	}{
		{env: EnvironmentProduction, want: zapcore.InfoLevel},
		{env: EnvironmentStaging, want: zapcore.InfoLevel},
		{env: EnvironmentUAT, want: zapcore.InfoLevel},
		{env: EnvironmentDevelopment, want: zapcore.DebugLevel},
		{env: EnvironmentLocal, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			t.Parallel()

			logger, err := New(Config{Environment: tt.env, OTelLibraryName: "payments-engine"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Level().Level())
		})
	}
}

func TestNewAppliesCustomLevel(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Environment: EnvironmentProduction, OTelLibraryName: "payments-engine", Level: " warn "})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, logger.Level().Level())
}

func TestBuildConfigWritesToStderr(t *testing.T) {
	t.Parallel()

	for _, env := range []Environment{EnvironmentProduction, EnvironmentLocal} {
		cfg := buildConfigByEnvironment(env)
		assert.Equal(t, "json", cfg.Encoding)
		assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
		assert.Equal(t, []string{"stderr"}, cfg.ErrorOutputPaths)
	}

	assert.True(t, buildConfigByEnvironment(EnvironmentDevelopment).Development)
	assert.False(t, buildConfigByEnvironment(EnvironmentProduction).Development)
}
