package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	logpkg "github.com/maxviazov/campaign-site/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		config         *logpkg.LoggerConfig
		expectError    bool
		validateOutput func(zerolog.Logger) bool
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
				Fields:         map[string]interface{}{"key": "value"},
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel && logger.GetLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "invalid-level",
			},
			expectError: true,
		},
		{
			name: "invalid format",
			config: &logpkg.LoggerConfig{
				Env:    "prod",
				Format: "xml",
			},
			expectError: true,
		},
		{
			name: "test env defaults to info json",
			config: &logpkg.LoggerConfig{
				Env: "test",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return logger.GetLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "staging",
				Level:       "warn",
				TimeFormat:  "rfc3339",
				Stacktrace:  true,
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.WarnLevel
			},
		},
		{
			name: "trace level accepted",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "trace",
			},
			validateOutput: func(logger zerolog.Logger) bool {
				return logger.GetLevel() == zerolog.TraceLevel
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logpkg.New(test.config)
			if test.expectError {
				assert.NotNil(t, err)
			} else {
				assert.NoError(t, err)
				if test.validateOutput != nil {
					assert.True(t, test.validateOutput(l))
				}
			}
		})
	}

	t.Run("debug log file creation", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "logs", "debug.log")
		config := &logpkg.LoggerConfig{
			ServiceName: "integration-test",
			Env:         "dev",
			Level:       "debug",
			DebugFile:   file,
		}

		l, err := logpkg.New(config)
		assert.NoError(t, err)
		l.Debug().Msg("hello file")

		b, statErr := os.ReadFile(file)
		assert.NoError(t, statErr)
		assert.Contains(t, string(b), "hello file")
	})
}
