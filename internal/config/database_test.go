package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "svc",
		Password:        "secret",
		Name:            "fulfillment",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

func TestPgxConfig(t *testing.T) {
	c := testDatabaseConfig()

	cfg, err := c.PgxConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, 30*time.Second, cfg.HealthCheckPeriod, "zero period falls back to the default")
}

func TestPgxConfig_HealthCheckPeriodOverride(t *testing.T) {
	c := testDatabaseConfig()
	c.HealthCheckPeriod = 5 * time.Second

	cfg, err := c.PgxConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.HealthCheckPeriod)
}
