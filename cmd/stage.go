package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/spf13/cobra"
)

// stageCmd groups stage management.
var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Add, conclude and remove stages",
	Long: `Manage the stages of a race.

A stage starts in preparation: checkpoints can be added, results cannot. Concluding
the preparation freezes the checkpoints and opens the stage for results. There is
no way back.

Stage types: FLAT, MEDIUM_MOUNTAIN, HIGH_MOUNTAIN, TT (time trials take no checkpoints)

Examples:
  # Add a flat stage starting at 09:00 UTC
  peloton stage add 1 "Coastal Run" --length 182.5 --start 2026-07-04T09:00:00Z --type FLAT

  # Open it for results
  peloton stage conclude 1`,
}

var stageAddCmd = &cobra.Command{
	Use:     "add RACE_ID NAME",
	Short:   "Add a stage to a race",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		length, _ := cmd.Flags().GetFloat64("length")
		startStr, _ := cmd.Flags().GetString("start")
		typeStr, _ := cmd.Flags().GetString("type")

		raceID, err := parseID("race", args[0])
		if err != nil {
			contract.LogFatal("Cannot add stage", err)
		}
		start, err := contract.ParseStartTime(startStr)
		if err != nil {
			contract.LogFatal("Cannot add stage", err)
		}
		stageType := schema.StageType(strings.ToUpper(strings.TrimSpace(typeStr)))

		err = mutatePortal(func(s *store.Store) error {
			id, err := s.AddStage(raceID, args[1], description, length, start, stageType)
			if err != nil {
				return err
			}
			fmt.Printf("Added stage %d: %s\n", id, args[1])
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot add stage", err)
		}
	},
}

var stageConcludeCmd = &cobra.Command{
	Use:     "conclude STAGE_ID",
	Short:   "Conclude the preparation of a stage so it accepts results",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot conclude stage", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.ConcludeStagePreparation(id) }); err != nil {
			contract.LogFatal("Cannot conclude stage", err)
		}
		fmt.Printf("Stage %d is waiting for results.\n", id)
	},
}

var stageCheckpointsCmd = &cobra.Command{
	Use:     "checkpoints STAGE_ID",
	Short:   "List the checkpoints of a stage in order",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot list checkpoints", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list checkpoints", err)
		}
		checkpointIDs, err := s.StageCheckpoints(id)
		if err != nil {
			contract.LogFatal("Cannot list checkpoints", err)
		}
		for _, cpID := range checkpointIDs {
			cp, err := s.Checkpoint(cpID)
			if err != nil {
				contract.LogFatal("Cannot list checkpoints", err)
			}
			line := fmt.Sprintf("%d\t%s\t%.1fkm", cp.ID, cp.Type, cp.Location)
			if cp.AverageGradient != nil && cp.Length != nil {
				line += fmt.Sprintf("\t%.1f%% over %.1fkm", *cp.AverageGradient, *cp.Length)
			}
			fmt.Println(line)
		}
	},
}

var stageRemoveCmd = &cobra.Command{
	Use:     "remove STAGE_ID",
	Short:   "Remove a stage with its checkpoints, results and recorded points",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot remove stage", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.RemoveStage(id) }); err != nil {
			contract.LogFatal("Cannot remove stage", err)
		}
		fmt.Println("Stage removed.")
	},
}
