package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/timesheet"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "9090",
		"APPROVAL_PREDICATE": "not_rejected",
		"REJECTED_EDITABLE":  "false",
		"REMINDER_INTERVAL":  "90m",
		"ALLOWED_ORIGINS":    "https://a.example, https://b.example,",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, timesheet.Policy{RejectedEditable: false, Approved: timesheet.ApprovedNotRejected}, cfg.Policy())
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, key := range []string{"PORT", "REJECTED_EDITABLE", "REMINDER_ENABLED", "REMINDER_INTERVAL"} {
		cfg := Default()
		err := cfg.applyEnv(func(k string) (string, bool) {
			if k == key {
				return "garbage", true
			}
			return "", false
		})
		assert.Error(t, err, key)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	cfg.DefaultTimezone = "Mars/Olympus"
	cfg.ApprovalPredicate = "whenever"
	cfg.ReminderInterval = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 0")
	assert.Contains(t, err.Error(), "Mars/Olympus")
	assert.Contains(t, err.Error(), "whenever")
	assert.Contains(t, err.Error(), "reminder interval")

	cfg.ReminderEnabled = false
	cfg.Port, cfg.DefaultTimezone, cfg.ApprovalPredicate = 8080, "Asia/Dubai", ""
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "Asia/Dubai", cfg.Location().String())
}

func TestLoad_EnvFileThenFlags(t *testing.T) {
	// GIVEN: a .env file setting the db path and timezone
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_PATH=from-env.db\nDEFAULT_TIMEZONE=Europe/London\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DB_PATH")
		os.Unsetenv("DEFAULT_TIMEZONE")
	})

	// WHEN: loading with a port flag
	cfg, err := Load([]string{"-env", envFile, "-port", "3000"})
	require.NoError(t, err)

	// THEN: the file fills the environment and the flag wins for port
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "Europe/London", cfg.DefaultTimezone)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	cfg, err := Load([]string{"-env", filepath.Join(t.TempDir(), "absent.env"), "-db", ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DBPath)
}
