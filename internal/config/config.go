// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Bot     BotConfig     `toml:"bot"`
	Storage StorageConfig `toml:"storage"`
	Sheets  SheetsConfig  `toml:"sheets"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// BotConfig holds message handling settings.
type BotConfig struct {
	Delimiter       string `toml:"delimiter"`         // argument separator, e.g. "$$$"
	UTCOffset       string `toml:"utc_offset"`        // e.g. "+05:30"
	MemberOnly      bool   `toml:"member_only"`       // only handle messages from plain members
	AllowedURLsGlob string `toml:"allowed_urls_glob"` // e.g. "*_allowed_urls.txt"
	RatePerMinute   int    `toml:"rate_per_minute"`   // per-chat webhook limit, 0 disables
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Driver       string `toml:"driver"`        // "json" or "sqlite"
	SnapshotPath string `toml:"snapshot_path"` // used when the glob matches nothing
	SnapshotGlob string `toml:"snapshot_glob"` // greatest match wins
	DBPath       string `toml:"db_path"`       // sqlite database, also holds the query log
}

// SheetsConfig holds grid mirror settings.
type SheetsConfig struct {
	Backend         string `toml:"backend"` // "sheets" or "memory"
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CredentialsFile string `toml:"credentials_file"`
	StartRow        int    `toml:"start_row"`
	CallTimeout     string `toml:"call_timeout"` // e.g. "15s"
}

// ServerConfig holds webhook settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `toml:"level"` // "debug", "info", "warn", "error"
	File        string `toml:"file"`  // empty logs to stderr
	Development bool   `toml:"development"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "auto", "mocha", "macchiato", "frappe", "latte", "light"
}

// Storage drivers and grid backends.
const (
	DriverJSON    = "json"
	DriverSQLite  = "sqlite"
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			Delimiter:       "$$$",
			UTCOffset:       "+05:30",
			MemberOnly:      true,
			AllowedURLsGlob: "*_allowed_urls.txt",
			RatePerMinute:   30,
		},
		Storage: StorageConfig{
			Driver:       DriverJSON,
			SnapshotPath: "channels_id_with_slots_info.json",
			SnapshotGlob: "",
			DBPath:       defaultDBPath(),
		},
		Sheets: SheetsConfig{
			Backend:         BackendMemory,
			CredentialsFile: "api_key.json",
			StartRow:        1,
			CallTimeout:     "15s",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "onduty.db"
	}
	return filepath.Join(home, ".local", "share", "onduty", "onduty.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "onduty", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath)
	cfg.Sheets.CredentialsFile = expandPath(cfg.Sheets.CredentialsFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Bot overrides
	if v := os.Getenv("ONDUTY_DELIMITER"); v != "" {
		cfg.Bot.Delimiter = v
	}
	if v := os.Getenv("ONDUTY_UTC_OFFSET"); v != "" {
		cfg.Bot.UTCOffset = v
	}
	if v := os.Getenv("ONDUTY_MEMBER_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ONDUTY_MEMBER_ONLY: %w", err)
		}
		cfg.Bot.MemberOnly = b
	}
	if v := os.Getenv("ONDUTY_ALLOWED_URLS_GLOB"); v != "" {
		cfg.Bot.AllowedURLsGlob = v
	}
	if v := os.Getenv("ONDUTY_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ONDUTY_RATE_PER_MINUTE: %w", err)
		}
		cfg.Bot.RatePerMinute = n
	}

	// Storage overrides
	if v := os.Getenv("ONDUTY_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("ONDUTY_SNAPSHOT_PATH"); v != "" {
		cfg.Storage.SnapshotPath = v
	}
	if v := os.Getenv("ONDUTY_SNAPSHOT_GLOB"); v != "" {
		cfg.Storage.SnapshotGlob = v
	}
	if v := os.Getenv("ONDUTY_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// Sheets overrides
	if v := os.Getenv("ONDUTY_SHEETS_BACKEND"); v != "" {
		cfg.Sheets.Backend = v
	}
	if v := os.Getenv("ONDUTY_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("ONDUTY_CREDENTIALS_FILE"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("ONDUTY_SHEETS_CALL_TIMEOUT"); v != "" {
		cfg.Sheets.CallTimeout = v
	}

	// Server and log overrides
	if v := os.Getenv("ONDUTY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ONDUTY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ONDUTY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	// UI overrides
	if v := os.Getenv("ONDUTY_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Delimiter) == "" {
		return errors.New("delimiter must be set")
	}
	if _, err := ParseUTCOffset(c.Bot.UTCOffset); err != nil {
		return err
	}
	if c.Bot.RatePerMinute < 0 {
		return errors.New("rate_per_minute must not be negative")
	}

	switch c.Storage.Driver {
	case DriverJSON:
		if c.Storage.SnapshotPath == "" && c.Storage.SnapshotGlob == "" {
			return errors.New("snapshot_path or snapshot_glob must be set")
		}
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	switch c.Sheets.Backend {
	case BackendMemory:
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("spreadsheet_id must be set for the sheets backend")
		}
	default:
		return fmt.Errorf("invalid sheets backend: %s", c.Sheets.Backend)
	}
	if c.Sheets.StartRow < 1 {
		return fmt.Errorf("start_row must be at least 1, got %d", c.Sheets.StartRow)
	}
	if _, err := c.Sheets.Timeout(); err != nil {
		return err
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Timeout returns the per-call grid deadline.
func (s SheetsConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(s.CallTimeout)
	if err != nil {
		return 0, fmt.Errorf("call_timeout must be a duration like \"15s\", got %q", s.CallTimeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("call_timeout must be positive, got %q", s.CallTimeout)
	}
	return d, nil
}

// Location returns the fixed-offset zone the bot reads the clock in.
func (b BotConfig) Location() *time.Location {
	loc, err := ParseUTCOffset(b.UTCOffset)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseUTCOffset parses "+05:30", "-0800" or "Z" into a fixed zone.
func ParseUTCOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || strings.EqualFold(s, "UTC") {
		return time.UTC, nil
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("utc_offset must start with + or -, got %q", s)
	}
	hh, mm, found := strings.Cut(s[1:], ":")
	if !found && len(hh) == 4 {
		hh, mm = hh[:2], hh[2:]
	}
	if mm == "" {
		mm = "00"
	}
	hours, err1 := strconv.Atoi(hh)
	minutes, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || hours > 14 || minutes > 59 || hours < 0 || minutes < 0 {
		return nil, fmt.Errorf("utc_offset must look like +05:30, got %q", s)
	}
	return time.FixedZone("UTC"+s, sign*(hours*3600+minutes*60)), nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
