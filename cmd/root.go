package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/snapshot"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "peloton",
	Short:              "Keep results and classifications of multi-stage cycling races.",
	Long:               `Peloton records races, stages, teams and rider times, then ranks stages and classifies races the way a race jury does.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".peloton") // Name of config file (without extension)
		viper.SetConfigType("yaml")     // We'll use YAML format
		viper.AddConfigPath(".")        // Look in the current directory
		viper.AddConfigPath("$HOME")    // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PELOTON")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("portal", contract.DefaultPortalFile)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("archive-backend", schema.SQLiteBackend)
	viper.SetDefault("archive-db-connect", "")
	viper.SetDefault("classification", schema.GeneralClassification)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadPortal reads the configured portal file. A missing file is an empty portal.
func loadPortal() (*store.Store, error) {
	s, err := snapshot.LoadFile(cfg.PortalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load portal %s: %w", cfg.PortalFile, err)
	}
	return s, nil
}

// mutatePortal loads the portal, applies fn and saves the result.
// The file is left untouched when fn fails.
func mutatePortal(fn func(s *store.Store) error) error {
	s, err := loadPortal()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if err := snapshot.SaveFile(s, cfg.PortalFile); err != nil {
		return fmt.Errorf("failed to save portal %s: %w", cfg.PortalFile, err)
	}
	return nil
}

// parseID parses a positional entity id.
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s id '%s'", contract.ErrInvalidArgument, kind, arg)
	}
	return id, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
