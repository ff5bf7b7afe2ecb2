package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	config, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", config.AppEnv)
	assert.Equal(t, ":8080", config.HTTPAddr)
	assert.Equal(t, "localhost", config.Postgres.Host)
	assert.Equal(t, "skillswap", config.Postgres.DBName)
	assert.Equal(t, "6379", config.Redis.Port)
	assert.Equal(t, 24*time.Hour, config.JWT.TTL)
	assert.Empty(t, config.Observability.OTLPEndpoint)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("JWT_TTL_HOURS", "2")

	config, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", config.AppEnv)
	assert.Equal(t, ":9090", config.HTTPAddr)
	assert.Equal(t, "db.internal", config.Postgres.Host)
	assert.Equal(t, 2*time.Hour, config.JWT.TTL)
}
