package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mongoDb: fromfile
upstreamUrl: http://ml.local:8001/
port: "9000"
sms:
  dryRun: true
log:
  level: debug
`), 0o600))

	for _, k := range []string{"MONGO_URI", "MONGO_DB", "UPSTREAM_URL", "SMS_DRY_RUN", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMS_COUNTRY_CODE", "+44")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.MongoDB)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "http://ml.local:8001", cfg.UpstreamURL)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMS.DryRun)
	assert.Equal(t, "+44", cfg.SMS.CountryCode)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("SMS_DRY_RUN", "sometimes")
	_, err := loadConfig("")
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(LogConfig{Level: "warn", Format: "console"})
	assert.NoError(t, err)
	_, err = newLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}
