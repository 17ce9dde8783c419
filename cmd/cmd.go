// Package cmd defines the command-line interface for peloton.
package cmd

import (
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(raceCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(riderCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	raceCmd.AddCommand(raceCreateCmd, raceListCmd, raceShowCmd, raceStagesCmd, raceRemoveCmd)
	stageCmd.AddCommand(stageAddCmd, stageConcludeCmd, stageCheckpointsCmd, stageRemoveCmd)
	checkpointCmd.AddCommand(checkpointSprintCmd, checkpointClimbCmd, checkpointRemoveCmd)
	teamCmd.AddCommand(teamCreateCmd, teamListCmd, teamRidersCmd, teamRemoveCmd)
	riderCmd.AddCommand(riderAddCmd, riderRemoveCmd)
	resultCmd.AddCommand(resultRegisterCmd, resultShowCmd, resultDeleteCmd)
	rankCmd.AddCommand(rankStageCmd, rankRaceCmd)
	pointsCmd.AddCommand(pointsRecordCmd, pointsListCmd)
	archiveCmd.AddCommand(archivePushCmd, archivePullCmd, archiveStatusCmd, archiveClearCmd, archiveMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("portal", contract.DefaultPortalFile, "Path to the portal file")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("archive-backend", string(schema.SQLiteBackend), "Archive backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("archive-db-connect", "", "Database connection string for the archive (SQLite file path, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Entity flags are read straight from the command, they are not configuration
	raceCreateCmd.Flags().String("description", "", "Free-text description of the race")
	raceRemoveCmd.Flags().String("name", "", "Remove the race with this name instead of an id")

	stageAddCmd.Flags().String("description", "", "Free-text description of the stage")
	stageAddCmd.Flags().Float64("length", 0, "Stage length in kilometres (at least 5)")
	stageAddCmd.Flags().String("start", "", "Start time in ISO8601, e.g. 2026-07-04T09:00:00Z")
	stageAddCmd.Flags().String("type", string(schema.FlatStage), "Stage type: FLAT or MEDIUM_MOUNTAIN or HIGH_MOUNTAIN or TT")

	checkpointClimbCmd.Flags().String("category", string(schema.HCClimb), "Climb category: C4 or C3 or C2 or C1 or HC")
	checkpointClimbCmd.Flags().Float64("gradient", 0, "Average gradient in percent")
	checkpointClimbCmd.Flags().Float64("length", 0, "Climb length in kilometres")

	teamCreateCmd.Flags().String("description", "", "Free-text description of the team")
	riderAddCmd.Flags().Int("born", 0, "Year of birth")
	demoCmd.Flags().Bool("save", false, "Write the demo to the portal file")

	// Bind all flags of rankRaceCmd to Viper
	rankRaceCmd.Flags().String("classification", string(schema.GeneralClassification), "Classification: general or points or mountain")
	if err := viper.BindPFlags(rankRaceCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank race flags", err)
	}

	// Bind all flags of archiveMigrateCmd to Viper
	archiveMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(archiveMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding archive migrate flags", err)
	}
}
