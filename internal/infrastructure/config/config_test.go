package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_HOST", "DB_PORT", "HIS_HOST", "HIS_PORT",
		"NHSO_API_URL", "NHSO_DELAY_MS", "NHSO_TIMEOUT", "MONGODB_DSN",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "3306", cfg.HISPort)
	assert.Equal(t, 300*time.Millisecond, cfg.NHSODelay)
	assert.Equal(t, 10*time.Second, cfg.NHSOTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("NHSO_API_URL", "https://nhso.example/api/history")
	t.Setenv("NHSO_API_TOKEN", "opaque-token")
	t.Setenv("NHSO_DELAY_MS", "0")
	t.Setenv("HIS_NAME", "hosxp")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, "https://nhso.example/api/history", cfg.NHSOAPIURL)
	assert.Equal(t, "opaque-token", cfg.NHSOAPIToken)
	assert.Equal(t, time.Duration(0), cfg.NHSODelay)
	assert.Equal(t, "hosxp", cfg.HISName)
}
