package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "8084", cfg.Server.Port)
	assert.Equal(t, 1500, cfg.Report.ChatCharBudget)
	assert.Equal(t, 2, cfg.Report.ChatDelaySeconds)
	assert.Equal(t, "recent", cfg.Report.FilterPolicy)
	assert.Equal(t, 24*time.Hour, cfg.Report.GetRecencyWindow())
	assert.Equal(t, 2*time.Second, cfg.Report.GetChatDelay())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Report.ChatCharBudget, cfg.Report.ChatCharBudget)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report_config.yaml")
	data := `
server:
  port: "9090"
report:
  daily_run_enabled: true
  daily_run_time: "07:30"
  email: team@example.com
  chat_char_budget: 900
timezone: UTC
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Report.DailyRunEnabled)
	assert.Equal(t, "07:30", cfg.Report.DailyRunTime)
	assert.Equal(t, "team@example.com", cfg.Report.Email)
	assert.Equal(t, 900, cfg.Report.ChatCharBudget)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("REPORT_WHATSAPP_NUMBER", "+919876543210")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "+919876543210", cfg.Report.WhatsAppNumber)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
