package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, time.Minute, cfg.MatchCacheTTL)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "SQLite3")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("MATCH_CACHE_TTL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.MatchCacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnv_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "fairlance")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:p%40ss@db:5432/fairlance?sslmode=disable", cfg.DatabaseURL)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bad duration", map[string]string{"MATCH_CACHE_TTL": "soon"}},
		{"bad number", map[string]string{"MAX_UPLOAD_MB": "ten"}},
		{"short secret in production", map[string]string{
			"APP_ENV": "production", "JWT_SECRET": "short", "REFRESH_SECRET": "short",
			"CORS_ALLOWED_ORIGINS": "https://a.example",
		}},
		{"production without origins", map[string]string{
			"APP_ENV":              "production",
			"JWT_SECRET":           "0123456789abcdef0123456789abcdef",
			"REFRESH_SECRET":       "0123456789abcdef0123456789abcdef",
			"CORS_ALLOWED_ORIGINS": "",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "development")
			t.Setenv("DB_DRIVER", "memory")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
