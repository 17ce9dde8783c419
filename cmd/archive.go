package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/internal/archive"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// archiveSetup runs the shared setup and opens the configured archive.
func archiveSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if err := archive.InitArchive(cfg.ArchiveBackend, cfg.ArchiveDBConnect); err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	return nil
}

// archiveMigrateSetup runs the shared setup without opening the archive,
// so migrations can run against a fresh or outdated database.
func archiveMigrateSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.ArchiveBackend == schema.SQLiteBackend && cfg.ArchiveDBConnect == "" {
		cfg.ArchiveDBConnect = archive.GetDBFilePath()
	}
	return nil
}

// archiveCmd focused on archive management.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy the portal to and from a SQL database",
	Long: `Keep a copy of the whole portal in a SQL database.

A push replaces the archived copy with the current portal: races, stages, checkpoints,
teams, riders, results and recorded points, plus the id counters. A pull replaces the
portal with the archived copy.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  push    - Copy the portal into the archive
  pull    - Replace the portal with the archive
  status  - Show archive statistics
  clear   - Remove the archive
  migrate - Run database schema migrations

Examples:
  # Archive to the default SQLite file
  peloton archive push

  # Archive to PostgreSQL
  export PELOTON_ARCHIVE_BACKEND=postgresql
  export PELOTON_ARCHIVE_DB_CONNECT="host=localhost user=peloton password=secret dbname=peloton sslmode=disable"
  peloton archive push`,
}

// archivePushCmd copies the portal into the archive.
var archivePushCmd = &cobra.Command{
	Use:     "push",
	Short:   "Copy the portal into the archive",
	Args:    cobra.NoArgs,
	PreRunE: archiveSetup,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Failed to push archive", err)
		}
		if err := archive.Manager.GetArchiveStore().Save(rootCtx, s.Snapshot()); err != nil {
			contract.LogFatal("Failed to push archive", err)
		}
		fmt.Println("Portal archived successfully.")
	},
}

// archivePullCmd replaces the portal with the archive.
var archivePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the portal with the archived copy",
	Long: `Replace the portal file with the archived copy.

The archived graph is checked before anything is written; a broken archive leaves
the portal untouched.

WARNING: Unarchived changes to the portal are lost.

Examples:
  peloton archive pull --portal restored.json`,
	Args:    cobra.NoArgs,
	PreRunE: archiveSetup,
	Run: func(_ *cobra.Command, _ []string) {
		snap, err := archive.Manager.GetArchiveStore().Load(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to pull archive", err)
		}
		err = mutatePortal(func(s *store.Store) error { return s.Restore(snap) })
		if err != nil {
			contract.LogFatal("Failed to pull archive", err)
		}
		fmt.Println("Portal restored from archive.")
	},
}

// archiveStatusCmd shows archive status.
var archiveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display archive statistics and connection details",
	Long: `Show detailed information about the archive.

Displays:
- Backend type and connection status
- Schema version
- Number of archived rows per entity
- Last push timestamp
- Database table sizes

Examples:
  peloton archive status`,
	Args:    cobra.NoArgs,
	PreRunE: archiveSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := archive.Manager.GetArchiveStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get archive status", err)
		}
		archive.PrintArchiveStatus(status)
	},
}

// archiveClearCmd clears the archive.
var archiveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the archive",
	Long: `Delete the archived copy of the portal.

For SQLite the database file is removed. For MySQL and PostgreSQL the archive tables
and the migration history are dropped. The portal file is not touched.

WARNING: This action cannot be undone.

Examples:
  peloton archive clear`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.ArchiveDBConnect
		if dbFilePath == "" {
			dbFilePath = archive.GetDBFilePath()
		}
		if err := archive.ClearArchive(cfg.ArchiveBackend, dbFilePath, cfg.ArchiveDBConnect); err != nil {
			contract.LogFatal("Failed to clear archive", err)
		}
		fmt.Println("Archive cleared successfully.")
	},
}

// archiveMigrateCmd runs database migrations for the archive.
var archiveMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions of the archive.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  peloton archive migrate

  # Migrate to specific version
  peloton archive migrate --target-version 1

  # Rollback to initial state
  peloton archive migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: archiveMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := archive.MigrateArchive(cfg.ArchiveBackend, cfg.ArchiveDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
