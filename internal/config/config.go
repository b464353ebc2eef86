package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// Config is the root configuration for tsg, stored in ~/.tsg/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Server ServerConfig `json:"server"`
	Grid   GridConfig   `json:"grid"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig locates and authenticates against the timesheet backend.
type ServerConfig struct {
	// BaseURL is the backend origin, e.g. "https://pm.example.com".
	BaseURL string `json:"base_url" validate:"required,url"`
	// Token is the bearer credential sent with every request.
	Token string `json:"token"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `json:"timeout_seconds" validate:"gte=0,lte=600"`
}

// GridConfig holds weekly grid settings.
type GridConfig struct {
	// WorkScheduleHours is the default daily schedule; hours above it are overtime.
	WorkScheduleHours float64 `json:"work_schedule_hours" validate:"gt=0,lte=24"`
	// WeekStart is the first day of the displayed week ("sunday", "monday", …).
	WeekStart string `json:"week_start"`
	// Timezone is the IANA timezone for "today" and date flags. Empty = local.
	Timezone string `json:"timezone"`
	// Subjects overrides settings per subject id.
	Subjects map[string]SubjectConfig `json:"subjects" validate:"omitempty,dive"`
}

// SubjectConfig overrides grid settings for one subject.
type SubjectConfig struct {
	WorkScheduleHours float64 `json:"work_schedule_hours" validate:"gte=0,lte=24"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is a zap level: debug, info, warn, error.
	Level string `json:"level" validate:"oneof=debug info warn error"`
	// Format is "console" or "json".
	Format string `json:"format" validate:"oneof=console json"`
}

const (
	// DefaultBaseURL points at a backend on the local machine, e.g. `tsg serve`.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeoutSeconds bounds a request when none is configured.
	DefaultTimeoutSeconds = 15
	// DefaultWorkScheduleHours is the daily schedule when none is configured.
	DefaultWorkScheduleHours = 8.0
	// DefaultWeekStart matches the backend dashboard's Sunday-first weeks.
	DefaultWeekStart = "sunday"
	// DefaultLogLevel keeps diagnostics out of normal command output.
	DefaultLogLevel = "warn"
	// DefaultLogFormat is human-readable.
	DefaultLogFormat = "console"
)

// Environment variables that override the file.
const (
	EnvBaseURL  = "TSG_BASE_URL"
	EnvToken    = "TSG_TOKEN"
	EnvLogLevel = "TSG_LOG_LEVEL"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Grid: GridConfig{
			WorkScheduleHours: DefaultWorkScheduleHours,
			WeekStart:         DefaultWeekStart,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tsg configuration – ~/.tsg/config.json
//
// TSG_BASE_URL, TSG_TOKEN and TSG_LOG_LEVEL (from the environment or a .env
// file in the working directory) override the values below.
{
  // ── Backend ──────────────────────────────────────────────────────────────
  "server": {
    // Origin of the project-management backend.
    "base_url": "http://localhost:8080",

    // Bearer token sent with every request. Prefer TSG_TOKEN over storing it here.
    "token": "",

    // Per-request timeout in seconds.
    "timeout_seconds": 15
  },

  // ── Weekly grid ──────────────────────────────────────────────────────────
  "grid": {
    // Daily work schedule; hours above it count as overtime.
    "work_schedule_hours": 8,

    // First day of the displayed week.
    "week_start": "sunday",

    // IANA timezone for "today", e.g. "Europe/Berlin". Leave empty for local time.
    "timezone": "",

    // Per-subject overrides, e.g. { "emp-42": { "work_schedule_hours": 6 } }
    "subjects": {}
  },

  // ── Diagnostics ──────────────────────────────────────────────────────────
  "log": {
    // debug, info, warn or error.
    "level": "warn",
    // console or json.
    "format": "console"
  }
}
`

// BaseDir returns the root data directory (~/.tsg).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tsg"), nil
}

// FilePath returns the path to ~/.tsg/config.json.
func FilePath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.tsg/config.json, creating it with annotated defaults on first
// run, then applies .env and environment overrides and validates the result.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		cfg, err = Parse(data)
		if err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a commented config file and fills zero-value fields with
// built-in defaults so callers always get a usable Config even if the user
// only partially fills in the file.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), err
	}
	def := Default()
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = def.Server.BaseURL
	}
	if cfg.Server.TimeoutSeconds == 0 {
		cfg.Server.TimeoutSeconds = def.Server.TimeoutSeconds
	}
	if cfg.Grid.WorkScheduleHours == 0 {
		cfg.Grid.WorkScheduleHours = def.Grid.WorkScheduleHours
	}
	if cfg.Grid.WeekStart == "" {
		cfg.Grid.WeekStart = def.Grid.WeekStart
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that the week start and timezone
// resolve.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := timecalc.ParseWeekday(c.Grid.WeekStart); err != nil {
		return fmt.Errorf("grid.week_start: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("grid.timezone: %w", err)
	}
	return nil
}

// WeekStart returns the configured first day of the week.
func (c Config) WeekStart() time.Weekday {
	d, err := timecalc.ParseWeekday(c.Grid.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return d
}

// Location returns the configured timezone, or time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Grid.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Grid.Timezone)
}

// WorkSchedule returns the daily schedule for subjectID, falling back to the
// grid-wide default.
func (c Config) WorkSchedule(subjectID string) float64 {
	if s, ok := c.Grid.Subjects[subjectID]; ok && s.WorkScheduleHours > 0 {
		return s.WorkScheduleHours
	}
	return c.Grid.WorkScheduleHours
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
