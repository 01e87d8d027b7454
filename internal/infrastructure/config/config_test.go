package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "requisition-gateway", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "requisition", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, time.Minute, cfg.Submission.GuardTTL)
		assert.Equal(t, 5*time.Minute, cfg.Catalog.IndexTTL)
		assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "requisition-gateway", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("loads values from environment variables with MRQ prefix", func(t *testing.T) {
		t.Setenv("MRQ_APP_PORT", "9000")
		t.Setenv("MRQ_DATABASE_DRIVER", "sqlite")
		t.Setenv("MRQ_DATABASE_SQLITE_PATH", "/tmp/drafts.db")
		t.Setenv("MRQ_UPSTREAM_BASE_URL", "https://erp.example.com/api")
		t.Setenv("MRQ_UPSTREAM_SEND_KEY", "123456")
		t.Setenv("MRQ_SUBMISSION_GUARD_TTL", "90s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "sqlite3:///tmp/drafts.db", cfg.Database.MigrationURL())
		assert.Equal(t, "https://erp.example.com/api", cfg.Upstream.BaseURL)
		assert.Equal(t, "https://erp.example.com/api", cfg.Upstream.CrudURL, "crud url falls back to base url")
		assert.Equal(t, "123456", cfg.Upstream.SendKey)
		assert.Equal(t, 90*time.Second, cfg.Submission.GuardTTL)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "database.driver",
		},
		{
			name:    "idle exceeds open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 100 },
			wantErr: "max_idle_conns",
		},
		{
			name:    "relative upstream url",
			mutate:  func(c *Config) { c.Upstream.CrudURL = "erp/api" },
			wantErr: "upstream.crud_url",
		},
		{
			name:    "sampling ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SamplingRatio = 2 },
			wantErr: "sampling_ratio",
		},
		{
			name: "production requires long secret",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "short"
			},
			wantErr: "jwt.secret",
		},
		{
			name: "production rejects memory store",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.Upstream.BaseURL = "https://erp.example.com"
				c.Upstream.SendKey = "k"
				c.Database.Driver = "memory"
			},
			wantErr: "memory",
		},
		{
			name: "production requires redis",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.Upstream.BaseURL = "https://erp.example.com"
				c.Upstream.SendKey = "k"
				c.Database.SSLMode = "require"
			},
			wantErr: "redis.enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "requisition", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/requisition?sslmode=require", d.DSN())
}
