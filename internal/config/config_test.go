package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxviazov/campaign-site/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB", "APP_AUTH_ADMIN_TOKEN", "APP_STORAGE_DRIVER", "APP_APP_ENV"} {
		t.Setenv(k, "")
	}
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	clearSecrets(t)
	// Minimal YAML; secrets will come from ENV
	yaml := `
app:
  name: campaign-site
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json

storage:
  driver: postgres

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5

http:
  allowed_origins: ["https://example.org"]
  visitor_rate_per_minute: 12
`
	path := writeTempConfig(t, yaml)

	// Provide required secrets via ENV using the canonical APP_* names
	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")
	t.Setenv("APP_AUTH_ADMIN_TOKEN", "s3cret")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "s3cret", cfg.Auth.AdminToken)
	assert.Equal(t, []string{"https://example.org"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 12, cfg.HTTP.VisitorRatePerMinute)
	// defaults fill what the file leaves out
	assert.Equal(t, 5, cfg.HTTP.ContactRatePerMinute)
	assert.Equal(t, 60, cfg.HTTP.ListMaxAge)
	assert.True(t, cfg.Storage.Migrate)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	clearSecrets(t)
	yaml := `
app:
  name: abc
  env: test
  port: 18080
storage:
  driver: postgres
`
	path := writeTempConfig(t, yaml)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_POSTGRES_USER")
}

func TestConfigLoad_MemoryDriverNeedsNoDatabase(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
app:
  name: abc
  env: dev
  port: 8080
storage:
  driver: memory
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestConfigLoad_EnvOverridesFile(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
app:
  name: abc
  env: dev
  port: 8080
storage:
  driver: postgres
`)
	t.Setenv("APP_STORAGE_DRIVER", "memory")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			App:     config.AppConfig{Name: "x", Env: "dev", Port: 8080},
			Storage: config.StorageConfig{Driver: "memory"},
			HTTP:    config.HTTPConfig{VisitorRatePerMinute: 1, ContactRatePerMinute: 1, ShutdownTimeout: 1},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"ok", func(*config.Config) {}, false},
		{"bad env", func(c *config.Config) { c.App.Env = "qa" }, true},
		{"bad port", func(c *config.Config) { c.App.Port = 0 }, true},
		{"bad driver", func(c *config.Config) { c.Storage.Driver = "sqlite" }, true},
		{"zero rate", func(c *config.Config) { c.HTTP.ContactRatePerMinute = 0 }, true},
		{"prod without token", func(c *config.Config) { c.App.Env = "prod" }, true},
		{"prod with token", func(c *config.Config) { c.App.Env = "prod"; c.Auth.AdminToken = "t" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
