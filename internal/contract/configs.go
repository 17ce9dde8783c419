package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/peloton/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPortalFile  = "peloton_portal.json"
)

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	PortalFile     string
	Output         schema.OutputMode
	OutputFile     string
	ResultLimit    int
	Width          int // Terminal width override (0 = auto-detect)
	UseColors      bool
	Classification schema.Classification

	ArchiveBackend   schema.DatabaseBackend
	ArchiveDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Portal           string `mapstructure:"portal"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	ArchiveBackend   string `mapstructure:"archive-backend"`
	ArchiveDBConnect string `mapstructure:"archive-db-connect"`

	// --- Fields from rankRaceCmd.Flags() ---
	Classification string `mapstructure:"classification"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
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
			return fmt.Errorf("archive-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("archive-db-connect is required when using %s backend", backend)
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

// ParseDatabaseBackend normalises a backend name. Empty means the default sqlite backend.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.SQLiteBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid archive backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates the archive backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.ArchiveBackend)
	if err != nil {
		return err
	}
	cfg.ArchiveBackend = backend
	cfg.ArchiveDBConnect = input.ArchiveDBConnect
	return ValidateDatabaseConnectionString(cfg.ArchiveBackend, cfg.ArchiveDBConnect)
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.PortalFile = strings.TrimSpace(input.Portal)
	if cfg.PortalFile == "" {
		cfg.PortalFile = DefaultPortalFile
	}
	cfg.PortalFile = filepath.Clean(cfg.PortalFile)

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. Classification Validation ---
	cfg.Classification = schema.GeneralClassification
	if input.Classification != "" {
		cfg.Classification = schema.Classification(strings.ToLower(input.Classification))
		if _, ok := schema.ValidClassifications[cfg.Classification]; !ok {
			return fmt.Errorf("invalid classification '%s'. must be general, points, mountain", input.Classification)
		}
	}

	return nil
}
