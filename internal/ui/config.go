package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/config"
	"github.com/javiermolinar/onduty/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  onduty config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Bot.Delimiter = promptValue(reader, "Argument delimiter", cfg.Bot.Delimiter)
	cfg.Bot.UTCOffset = promptValue(reader, "UTC offset (+HH:MM)", cfg.Bot.UTCOffset)
	cfg.Bot.MemberOnly = promptBool(reader, "Only filter links from plain members", cfg.Bot.MemberOnly)
	cfg.Bot.AllowedURLsGlob = promptValue(reader, "Allowed URL files (glob)", cfg.Bot.AllowedURLsGlob)
	cfg.Bot.RatePerMinute = promptInt(reader, "Webhook messages per chat per minute (0 disables)", cfg.Bot.RatePerMinute)
	cfg.Storage.Driver = promptChoice(reader, "Storage driver", cfg.Storage.Driver, config.DriverJSON, config.DriverSQLite)
	cfg.Storage.SnapshotPath = promptValue(reader, "Snapshot path", cfg.Storage.SnapshotPath)
	cfg.Storage.SnapshotGlob = promptValue(reader, "Snapshot glob (empty to disable)", cfg.Storage.SnapshotGlob)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Sheets.Backend = promptChoice(reader, "Sheet backend", cfg.Sheets.Backend, config.BackendMemory, config.BackendSheets)
	if cfg.Sheets.Backend == config.BackendSheets {
		cfg.Sheets.SpreadsheetID = promptValue(reader, "Spreadsheet id", cfg.Sheets.SpreadsheetID)
		cfg.Sheets.CredentialsFile = promptValue(reader, "Service account credentials file", cfg.Sheets.CredentialsFile)
	}
	cfg.Sheets.StartRow = promptInt(reader, "First row of every block", cfg.Sheets.StartRow)
	cfg.Sheets.CallTimeout = promptValue(reader, "Sheet call timeout", cfg.Sheets.CallTimeout)
	cfg.Server.Addr = promptValue(reader, "Webhook listen address", cfg.Server.Addr)
	cfg.Log.Level = promptValue(reader, "Log level", cfg.Log.Level)
	cfg.Log.File = promptValue(reader, "Log file (empty for stderr)", cfg.Log.File)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[bot]")
	fmt.Printf("  delimiter         = %s\n", cfg.Bot.Delimiter)
	fmt.Printf("  utc_offset        = %s\n", cfg.Bot.UTCOffset)
	fmt.Printf("  member_only       = %t\n", cfg.Bot.MemberOnly)
	fmt.Printf("  allowed_urls_glob = %s\n", cfg.Bot.AllowedURLsGlob)
	fmt.Printf("  rate_per_minute   = %d\n", cfg.Bot.RatePerMinute)
	fmt.Println("\n[storage]")
	fmt.Printf("  driver            = %s\n", cfg.Storage.Driver)
	fmt.Printf("  snapshot_path     = %s\n", cfg.Storage.SnapshotPath)
	if cfg.Storage.SnapshotGlob != "" {
		fmt.Printf("  snapshot_glob     = %s\n", cfg.Storage.SnapshotGlob)
	}
	fmt.Printf("  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[sheets]")
	fmt.Printf("  backend           = %s\n", cfg.Sheets.Backend)
	if cfg.Sheets.Backend == config.BackendSheets {
		fmt.Printf("  spreadsheet_id    = %s\n", cfg.Sheets.SpreadsheetID)
		fmt.Printf("  credentials_file  = %s\n", cfg.Sheets.CredentialsFile)
	}
	fmt.Printf("  start_row         = %d\n", cfg.Sheets.StartRow)
	fmt.Printf("  call_timeout      = %s\n", cfg.Sheets.CallTimeout)
	fmt.Println("\n[server]")
	fmt.Printf("  addr              = %s\n", cfg.Server.Addr)
	fmt.Println("\n[log]")
	fmt.Printf("  level             = %s\n", cfg.Log.Level)
	fmt.Printf("  file              = %s\n", cfg.Log.File)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme             = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptBool(reader *bufio.Reader, label string, current bool) bool {
	for {
		value := strings.ToLower(promptValue(reader, label+" (true/false)", strconv.FormatBool(current)))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Printf("  Invalid value %q. Use true or false.\n", value)
	}
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q.\n", value)
	}
}

func promptChoice(reader *bufio.Reader, label, current string, options ...string) string {
	joined := strings.Join(options, ", ")
	for {
		value := strings.ToLower(promptValue(reader, fmt.Sprintf("%s (%s)", label, joined), current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Printf("  Invalid choice %q. Available: %s\n", value, joined)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
