package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

var configEnvVars = []string{
	"SELFHELP_CONFIG_PATH",
	"SELFHELP_ENV_FILE",
	"SELFHELP_PORT",
	"SELFHELP_READ_TIMEOUT",
	"SELFHELP_WRITE_TIMEOUT",
	"SELFHELP_SHUTDOWN_TIMEOUT",
	"SELFHELP_DB_PATH",
	"SELFHELP_ADMIN_EMAILS",
	"SELFHELP_LOG_LEVEL",
	"SELFHELP_LOG_FORMAT",
	"SELFHELP_LOG_FILE",
	"SELFHELP_LOG_MAX_SIZE_MB",
	"SELFHELP_LOG_MAX_BACKUPS",
	"SELFHELP_LOG_MAX_AGE_DAYS",
	"SELFHELP_TIMEZONE",
	"SELFHELP_HISTORY_DAYS",
	"SELFHELP_PAGE_SIZE",
	"SELFHELP_MAX_PAGE_SIZE",
}

// isolateEnv blanks every config variable and points the config and .env
// paths into an empty temp dir.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, v := range configEnvVars {
		t.Setenv(v, "")
	}
	dir := t.TempDir()
	t.Setenv("SELFHELP_CONFIG_PATH", filepath.Join(dir, "selfhelp.yaml"))
	t.Setenv("SELFHELP_ENV_FILE", filepath.Join(dir, ".env"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func dur(d Duration) time.Duration {
	return time.Duration(d)
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if dur(cfg.Server.ShutdownTimeout) != 15*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 15s", dur(cfg.Server.ShutdownTimeout))
	}
	if cfg.Database.Path != "data/selfhelp.db" {
		t.Errorf("Database.Path = %q, want data/selfhelp.db", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" || cfg.Log.File != "" {
		t.Errorf("Log = %+v, want info/json/no file", cfg.Log)
	}
	if cfg.Tracker.Timezone != "UTC" || cfg.Tracker.DefaultHistoryDays != 7 {
		t.Errorf("Tracker = %+v, want UTC/7", cfg.Tracker)
	}
	if cfg.Tracker.DefaultPageSize != 20 || cfg.Tracker.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d, want 20/100", cfg.Tracker.DefaultPageSize, cfg.Tracker.MaxPageSize)
	}
	if len(cfg.Auth.AdminEmails) != 0 {
		t.Errorf("AdminEmails = %v, want empty", cfg.Auth.AdminEmails)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolateEnv(t)
	writeFile(t, filepath.Join(dir, "selfhelp.yaml"), `
server:
  port: 9090
  read_timeout: 5s
database:
  path: /var/lib/selfhelp/app.db
auth:
  admin_emails:
    - boss@example.com
log:
  level: debug
  format: text
  file: /var/log/selfhelp.log
  max_size_mb: 10
tracker:
  timezone: Europe/Berlin
  default_history_days: 14
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 || dur(cfg.Server.ReadTimeout) != 5*time.Second {
		t.Errorf("Server = %+v, want port 9090 read 5s", cfg.Server)
	}
	if dur(cfg.Server.WriteTimeout) != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default 30s kept", dur(cfg.Server.WriteTimeout))
	}
	if cfg.Database.Path != "/var/lib/selfhelp/app.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if len(cfg.Auth.AdminEmails) != 1 || cfg.Auth.AdminEmails[0] != "boss@example.com" {
		t.Errorf("AdminEmails = %v", cfg.Auth.AdminEmails)
	}
	if cfg.Log.Format != "text" || cfg.Log.File != "/var/log/selfhelp.log" || cfg.Log.MaxSizeMB != 10 {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Log.MaxBackups != 3 {
		t.Errorf("Log.MaxBackups = %d, want default 3 kept", cfg.Log.MaxBackups)
	}
	if cfg.Tracker.Timezone != "Europe/Berlin" || cfg.Tracker.DefaultHistoryDays != 14 {
		t.Errorf("Tracker = %+v", cfg.Tracker)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := isolateEnv(t)
	writeFile(t, filepath.Join(dir, "selfhelp.yaml"), "server:\n  port: 9090\nlog:\n  level: debug\n")
	t.Setenv("SELFHELP_PORT", "7070")
	t.Setenv("SELFHELP_SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("SELFHELP_ADMIN_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("SELFHELP_PAGE_SIZE", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env 7070", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want YAML debug kept", cfg.Log.Level)
	}
	if dur(cfg.Server.ShutdownTimeout) != 2*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 2s", dur(cfg.Server.ShutdownTimeout))
	}
	want := []string{"a@example.com", "b@example.com"}
	if strings.Join(cfg.Auth.AdminEmails, "|") != strings.Join(want, "|") {
		t.Errorf("AdminEmails = %v, want %v", cfg.Auth.AdminEmails, want)
	}
	if cfg.Tracker.DefaultPageSize != 5 {
		t.Errorf("DefaultPageSize = %d, want 5", cfg.Tracker.DefaultPageSize)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "SELFHELP_DB_PATH=/tmp/from-dotenv.db\n")
	// godotenv never replaces variables that are already set, so the
	// blanked variable must be removed for the file to apply.
	os.Unsetenv("SELFHELP_DB_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/from-dotenv.db" {
		t.Errorf("Database.Path = %q, want value from .env", cfg.Database.Path)
	}
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SELFHELP_PORT", "eighty"},
		{"SELFHELP_READ_TIMEOUT", "soon"},
		{"SELFHELP_HISTORY_DAYS", "7d"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
		{"unknown level", "log:\n  level: verbose\n", "log.level"},
		{"unknown format", "log:\n  format: xml\n", "log.format"},
		{"bad timezone", "tracker:\n  timezone: Mars/Olympus\n", "tracker.timezone"},
		{"zero page size", "tracker:\n  default_page_size: 0\n", "page sizes"},
		{"default above max", "tracker:\n  default_page_size: 200\n", "max_page_size"},
		{"negative history", "tracker:\n  default_history_days: -1\n", "default_history_days"},
		{"zero history", "tracker:\n  default_history_days: 0\n", "default_history_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateEnv(t)
			writeFile(t, filepath.Join(dir, "selfhelp.yaml"), tt.yaml)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() = nil error, want validation failure")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := isolateEnv(t)
	writeFile(t, filepath.Join(dir, "selfhelp.yaml"), "server: [not, a, map\n")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want parse failure")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	isolateEnv(t)
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromFile(missing) = nil error, want error")
	}
}

func TestTrackerConfig_Location(t *testing.T) {
	loc, err := TrackerConfig{Timezone: "America/New_York"}.Location()
	if err != nil {
		t.Fatal(err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("Location() = %s", loc)
	}
}

func TestDuration_YAMLRoundTrip(t *testing.T) {
	var s struct {
		Timeout Duration `yaml:"timeout"`
	}
	if err := yaml.Unmarshal([]byte("timeout: 1m30s\n"), &s); err != nil {
		t.Fatal(err)
	}
	if dur(s.Timeout) != 90*time.Second {
		t.Fatalf("Timeout = %v, want 1m30s", dur(s.Timeout))
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "timeout: 1m30s" {
		t.Errorf("Marshal = %q", out)
	}

	if err := yaml.Unmarshal([]byte("timeout: forever\n"), &s); err == nil {
		t.Error("Unmarshal(forever) = nil error, want error")
	}
}
