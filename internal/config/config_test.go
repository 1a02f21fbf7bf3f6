package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cronmail.json", `{
		"crontab_command": "crontab -u backup",
		"temp_dir": "/var/tmp",
		"strict_schedule": true,
		"mail": {"subject": "Nightly"},
		"defaults": {"email": "ops@example.com"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crontab -u backup", cfg.CrontabCommand)
	assert.Equal(t, "/var/tmp", cfg.TempDir)
	assert.True(t, cfg.StrictSchedule)
	assert.Equal(t, "Nightly", cfg.Mail.Subject)
	assert.Equal(t, "Here is a requested file", cfg.Mail.Body)
	assert.Equal(t, "ops@example.com", cfg.Defaults.Email)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "cronmail.yaml", `
confirm: true
log_level: debug
mail:
  body: Attached is the export
defaults:
  schedule: "0 6 * * *"
  file: /srv/export.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Confirm)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "crontab", cfg.CrontabCommand)
	assert.Equal(t, "Cron Job", cfg.Mail.Subject)
	assert.Equal(t, "Attached is the export", cfg.Mail.Body)
	assert.Equal(t, "0 6 * * *", cfg.Defaults.Schedule)
	assert.Equal(t, "/srv/export.csv", cfg.Defaults.File)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeFile(t, "broken.json", `{"temp_dir": `)

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("CRONTAB_COMMAND", "/usr/local/bin/crontab")
	t.Setenv("CRONMAIL_STRICT", "true")
	t.Setenv("CRONMAIL_SUBJECT", "From env")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.com/x")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/crontab", cfg.CrontabCommand)
	assert.True(t, cfg.StrictSchedule)
	assert.Equal(t, "From env", cfg.Mail.Subject)
	assert.Equal(t, "https://hooks.example.com/x", cfg.SlackWebhookURL)
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CRONMAIL_STRICT", "not-a-bool")
	t.Setenv("CRONTAB_COMMAND", "")
	t.Setenv("CRONMAIL_TEMP_DIR", "")

	cfg := FromEnv()
	assert.False(t, cfg.StrictSchedule)
	assert.Equal(t, "crontab", cfg.CrontabCommand)
	assert.Equal(t, ".", cfg.TempDir)
}

func TestFileWebhookFallsBackToEnv(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.com/env")
	path := writeFile(t, "cronmail.yml", "temp_dir: /tmp\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/env", cfg.SlackWebhookURL)
}
