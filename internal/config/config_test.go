package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.App.Port)
	assert.False(t, cfg.App.Production())
	assert.Equal(t, "data/products.json", cfg.Storage.CatalogFile)
	assert.Equal(t, "data/sales.json", cfg.Storage.LedgerFile)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Empty(t, cfg.Email.To)
	assert.Equal(t, "https://api.twilio.com", cfg.Messaging.APIURL)
	assert.Equal(t, []string{"http://localhost:8501"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Reset.ConfirmTTL)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"APP_PORT=9000\n"+
			"LEDGER_FILE=/tmp/ventas.json\n"+
			"EMAIL_TO=owner@example.com, partner@example.com\n"+
			"MESSAGING_AUTH_TOKEN=from-file\n",
	), 0o600))

	t.Setenv("APP_ENV", "production")
	t.Setenv("MESSAGING_AUTH_TOKEN", "from-env")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_IDLE_TTL_SECONDS", "120")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.App.Production())
	assert.Equal(t, "/tmp/ventas.json", cfg.Storage.LedgerFile)
	assert.Equal(t, []string{"owner@example.com", "partner@example.com"}, cfg.Email.To)
	assert.Equal(t, "from-env", cfg.Messaging.AuthToken)
	assert.Equal(t, 3*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Sessions.IdleTTL)
}
