package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:        "development",
		Port:       "8080",
		JWTSecret:  "dev-secret-change-in-production",
		DBDriver:   "postgres",
		DBPassword: "password",
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingPort(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRejectsDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	assert.Error(t, cfg.Validate(), "default JWT secret must be rejected")

	cfg.JWTSecret = "a-sufficiently-long-production-secret!!"
	assert.Error(t, cfg.Validate(), "default DB password must be rejected")

	cfg.DBPassword = "s0mething-strong"
	assert.NoError(t, cfg.Validate())
}

func TestValidateProductionRejectsSQLite(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.DBDriver = "sqlite"
	cfg.JWTSecret = "a-sufficiently-long-production-secret!!"
	cfg.DBPassword = "s0mething-strong"
	assert.Error(t, cfg.Validate())
}

func TestIsProduction(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsProduction())
	cfg.Env = "prod"
	assert.True(t, cfg.IsProduction())
}
