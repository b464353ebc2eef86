package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/config"
)

func TestLoadFileWritesTemplateOnFirstRun(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Server.BaseURL, config.DefaultBaseURL)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected template at %s: %v", path, err)
	}

	// The template itself must parse back to the defaults.
	again, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template): %v", err)
	}
	if again.Grid.WorkScheduleHours != config.DefaultWorkScheduleHours {
		t.Errorf("WorkScheduleHours = %v, want %v", again.Grid.WorkScheduleHours, config.DefaultWorkScheduleHours)
	}
	if again.WeekStart() != time.Sunday {
		t.Errorf("WeekStart = %v, want Sunday", again.WeekStart())
	}
}

func TestParseFillsDefaults(t *testing.T) {
	data := []byte(`// comment
{
  // only a token
  "server": { "token": "abc" }
}`)
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Token != "abc" {
		t.Errorf("Token = %q, want %q", cfg.Server.Token, "abc")
	}
	if cfg.Server.TimeoutSeconds != config.DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.Server.TimeoutSeconds, config.DefaultTimeoutSeconds)
	}
	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := config.Parse([]byte(`{"server": `)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "https://pm.example.com")
	t.Setenv(config.EnvToken, "from-env")
	t.Setenv(config.EnvLogLevel, "DEBUG")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server":{"base_url":"http://file","token":"from-file"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != "https://pm.example.com" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Token != "from-env" {
		t.Errorf("Token = %q", cfg.Server.Token)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"bad url", func(c *config.Config) { c.Server.BaseURL = "not a url" }, true},
		{"schedule over a day", func(c *config.Config) { c.Grid.WorkScheduleHours = 25 }, true},
		{"unknown weekday", func(c *config.Config) { c.Grid.WeekStart = "someday" }, true},
		{"unknown timezone", func(c *config.Config) { c.Grid.Timezone = "Mars/Olympus" }, true},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, true},
		{"bad subject schedule", func(c *config.Config) {
			c.Grid.Subjects = map[string]config.SubjectConfig{"emp": {WorkScheduleHours: -1}}
		}, true},
		{"monday weeks in Berlin", func(c *config.Config) {
			c.Grid.WeekStart = "monday"
			c.Grid.Timezone = "Europe/Berlin"
		}, false},
	}
	for _, tt := range tests {
		cfg := config.Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestWorkSchedulePerSubject(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Subjects = map[string]config.SubjectConfig{
		"part-time": {WorkScheduleHours: 4},
		"unset":     {},
	}
	if got := cfg.WorkSchedule("part-time"); got != 4 {
		t.Errorf("WorkSchedule(part-time) = %v, want 4", got)
	}
	if got := cfg.WorkSchedule("unset"); got != config.DefaultWorkScheduleHours {
		t.Errorf("WorkSchedule(unset) = %v, want default", got)
	}
	if got := cfg.WorkSchedule("other"); got != config.DefaultWorkScheduleHours {
		t.Errorf("WorkSchedule(other) = %v, want default", got)
	}
}
