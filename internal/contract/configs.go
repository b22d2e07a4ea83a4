package contract

import (
	"fmt"
	"math"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata" // timezones work without system zoneinfo

	"github.com/huangsam/tomato/schema"
	"github.com/spf13/afero"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultTimezone    = "UTC"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for reporting and cleanup.
// This struct remains the "final, validated" config.
type Config struct {
	VaultPath      string // Absolute path to the vault root
	ReportFile     string // Vault-relative path of the CSV report
	HoursPerTomato float64
	Date           string // Report date as YYYY-MM-DD
	Location       *time.Location
	Workers        int
	OnError        schema.ErrorPolicy
	DryRun         bool

	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend // Empty when history is disabled
	HistoryDBConnect string                 // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in status lines
	UseColors bool // Enable colored labels in table output
}

// Settings are the user preferences persisted between runs.
type Settings struct {
	HoursPerTomato float64 `mapstructure:"hours-per-tomato"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Vault          string  `mapstructure:"vault"`
	ReportFile     string  `mapstructure:"report-file"`
	HoursPerTomato float64 `mapstructure:"hours-per-tomato"`
	Date           string  `mapstructure:"date"`
	Timezone       string  `mapstructure:"timezone"`
	Workers        int     `mapstructure:"workers"`
	OnError        string  `mapstructure:"on-error"`
	DryRun         bool    `mapstructure:"dry-run"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Limit      int    `mapstructure:"limit"`
	Width      int    `mapstructure:"width"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`

	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Now returns the current time in the configured location.
func (c *Config) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. fs is used to check the vault directory.
func ProcessAndValidate(cfg *Config, fs afero.Fs, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDate(cfg, input, now); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveVaultPaths(cfg, fs, input)
}

// ValidateHoursPerTomato checks the conversion factor: finite and not negative.
func ValidateHoursPerTomato(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("hours per tomato must be a finite number (received %v)", hours)
	}
	if hours < 0 {
		return fmt.Errorf("hours per tomato cannot be negative (received %v)", hours)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the fields that need no I/O.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.DryRun = input.DryRun
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if err := ValidateHoursPerTomato(input.HoursPerTomato); err != nil {
		return err
	}
	cfg.HoursPerTomato = input.HoursPerTomato

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	cfg.OnError = schema.ErrorPolicy(strings.ToLower(input.OnError))
	if _, ok := schema.ValidErrorPolicies[cfg.OnError]; !ok {
		return fmt.Errorf("invalid error policy '%s'. must be abort, skip", input.OnError)
	}

	return nil
}

// processDate resolves the timezone and the report date.
// The date defaults to today in the configured timezone.
func processDate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc

	today := now.In(loc)
	switch d := strings.ToLower(strings.TrimSpace(input.Date)); d {
	case "", "today":
		cfg.Date = today.Format(schema.DateLayout)
	case "yesterday":
		cfg.Date = today.AddDate(0, 0, -1).Format(schema.DateLayout)
	default:
		t, err := time.ParseInLocation(schema.DateLayout, d, loc)
		if err != nil {
			return fmt.Errorf("invalid date '%s'. Expected YYYY-MM-DD, today or yesterday", input.Date)
		}
		cfg.Date = t.Format(schema.DateLayout)
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Cache and history must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// resolveVaultPaths makes the vault path absolute and checks the report path stays inside it.
func resolveVaultPaths(cfg *Config, fs afero.Fs, input *ConfigRawInput) error {
	vault := input.Vault
	if vault == "" {
		vault = "."
	}
	absVault, err := filepath.Abs(vault)
	if err != nil {
		return err
	}
	absVault = filepath.Clean(absVault)

	isDir, err := afero.IsDir(fs, absVault)
	if err != nil || !isDir {
		return fmt.Errorf("vault %q is not a directory", vault)
	}
	cfg.VaultPath = absVault

	reportFile := input.ReportFile
	if reportFile == "" {
		reportFile = schema.DefaultReportFile
	}
	normalized, err := NormalizeDocumentPath(cfg.VaultPath, reportFile)
	if err != nil {
		return fmt.Errorf("invalid report file: %w", err)
	}
	if path.Ext(normalized) != ".csv" {
		return fmt.Errorf("report file must have a .csv extension (received %q)", reportFile)
	}
	cfg.ReportFile = normalized
	return nil
}
