package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:8000", cfg.Services["timesheet"].BaseURL)
	require.Equal(t, "/chat", cfg.Services["timesheet"].Path)
	require.Equal(t, "http://localhost:8001", cfg.Services["hr-policy"].BaseURL)
	require.Equal(t, "/query", cfg.Services["hr-policy"].Path)
	require.Equal(t, 30*time.Second, cfg.Services["timesheet"].Timeout)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, 5*time.Second, cfg.NoticeTTL)
}

func TestSetDefaults_FillsPartialServiceEntry(t *testing.T) {
	cfg := &Config{
		Services: map[string]ServiceConfig{
			"timesheet": {BaseURL: "http://ts.internal:9000"},
		},
	}
	cfg.SetDefaults()

	ts := cfg.Services["timesheet"]
	require.Equal(t, "http://ts.internal:9000", ts.BaseURL, "explicit value wins")
	require.Equal(t, "/chat", ts.Path, "missing fields filled from defaults")
	require.Equal(t, "POST", ts.Method)
	require.Equal(t, 30*time.Second, ts.Timeout)

	// Untouched sections come in whole.
	require.Equal(t, "hr-policy", knownIDs(cfg.Services)[0])
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestSetDefaults_NormalizesServiceKeys(t *testing.T) {
	cfg := &Config{
		Services: map[string]ServiceConfig{
			"hr_policy": {BaseURL: "http://policies.internal"},
		},
	}
	cfg.SetDefaults()

	require.NotContains(t, cfg.Services, "hr_policy")
	require.Equal(t, "http://policies.internal", cfg.Services["hr-policy"].BaseURL)
	require.Equal(t, "/query", cfg.Services["hr-policy"].Path)
}

func TestValidate_AccumulatesAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services["timesheet"] = ServiceConfig{
		BaseURL: "not a url",
		Path:    "chat",
		Method:  "BREW",
		Timeout: -1,
	}
	cfg.Database.Driver = "oracle"
	cfg.Logging.Level = "loud"
	cfg.NoticeTTL = 0

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "base_url")
	require.Contains(t, msg, "must start with /")
	require.Contains(t, msg, `unsupported method "BREW"`)
	require.Contains(t, msg, "timeout must be positive")
	require.Contains(t, msg, `unsupported driver "oracle"`)
	require.Contains(t, msg, `unknown level "loud"`)
	require.Contains(t, msg, "notice_ttl must be positive")
}

func TestValidate_RejectsUnknownService(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services["payroll"] = ServiceConfig{
		BaseURL: "http://localhost:9999",
		Path:    "/pay",
		Method:  "POST",
		Timeout: time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown service "payroll"`)
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Driver = DriverPostgres

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "dsn is required")

	cfg.Database.DSN = "host=localhost user=workmate dbname=workmate"
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
services:
  timesheet:
    base_url: http://timesheet.corp:8000
    timeout: 10s
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "http://timesheet.corp:8000", cfg.Services["timesheet"].BaseURL)
	require.Equal(t, 10*time.Second, cfg.Services["timesheet"].Timeout)
	require.Equal(t, "/chat", cfg.Services["timesheet"].Path, "unset fields keep defaults")
	require.Equal(t, "http://localhost:8001", cfg.Services["hr-policy"].BaseURL)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // keep the default location empty
	t.Setenv("WORKMATE_SERVICES_HR_POLICY_BASE_URL", "http://policies.corp:8001")
	t.Setenv("WORKMATE_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "http://policies.corp:8001", cfg.Services["hr-policy"].BaseURL)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.Logging.Level)
	require.Equal(t, cfg.Services["timesheet"].BaseURL, loaded.Services["timesheet"].BaseURL)
}

func TestServiceOptions_KnownAndUnknown(t *testing.T) {
	cfg := DefaultConfig()

	require.Len(t, cfg.ServiceOptions("timesheet"), 4)
	require.Len(t, cfg.ServiceOptions("HR_Policy"), 4)
	require.Nil(t, cfg.ServiceOptions("payroll"))
}
