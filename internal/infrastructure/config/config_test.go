package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dispensa-admin", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenExpiration)
	assert.Equal(t, "stub", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.StatsCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DISPENSA_DATABASE_HOST", "db.internal")
	t.Setenv("DISPENSA_APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("DISPENSA_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err, "production requires jwt secret and db password")

	t.Setenv("DISPENSA_JWT_SECRET", "test-secret")
	t.Setenv("DISPENSA_DATABASE_PASSWORD", "test-password")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", DBName: "dispensa", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=dispensa sslmode=disable",
		cfg.DSN())
}

func TestValidate_StorageBackend(t *testing.T) {
	t.Setenv("DISPENSA_STORAGE_BACKEND", "ftp")
	_, err := Load()
	assert.Error(t, err)
}
