package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "consultly.db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Second, cfg.SyncTimeout)
	assert.Equal(t, float64(2), cfg.RateLimitRPS)
	assert.False(t, cfg.Google.IsConfigured())
	assert.False(t, cfg.Odoo.IsConfigured())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestOdooConfig_IsConfigured(t *testing.T) {
	cfg := OdooConfig{URL: "https://odoo.example.com", Database: "prod", UserID: 2, APIKey: "key"}
	assert.True(t, cfg.IsConfigured())

	cfg.APIKey = ""
	assert.False(t, cfg.IsConfigured())
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/consultly")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SYNC_TIMEOUT", "3s")
	t.Setenv("ODOO_URL", "https://odoo.example.com")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USER_ID", "7")
	t.Setenv("ODOO_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.SyncTimeout)
	assert.True(t, cfg.Odoo.IsConfigured())
	assert.Equal(t, 7, cfg.Odoo.UserID)
}
