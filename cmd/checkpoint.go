package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/spf13/cobra"
)

// checkpointCmd groups checkpoint management.
var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Add and remove sprints and climbs of a stage in preparation",
	Long: `Manage the checkpoints of a stage that is still in preparation.

Checkpoints keep the order they were added in; results carry one timestamp per
checkpoint between the start and the finish. Climbs award mountain points by
category: C4, C3, C2, C1, HC.

Examples:
  peloton checkpoint sprint 2 95
  peloton checkpoint climb 2 158 --category HC --gradient 8.1 --length 13.8`,
}

// parseLocation parses a kilometre offset argument.
func parseLocation(arg string) (float64, error) {
	location, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid location '%s'", contract.ErrInvalidArgument, arg)
	}
	return location, nil
}

var checkpointSprintCmd = &cobra.Command{
	Use:     "sprint STAGE_ID LOCATION_KM",
	Short:   "Add an intermediate sprint",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		stageID, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot add sprint", err)
		}
		location, err := parseLocation(args[1])
		if err != nil {
			contract.LogFatal("Cannot add sprint", err)
		}
		err = mutatePortal(func(s *store.Store) error {
			id, err := s.AddSprint(stageID, location)
			if err != nil {
				return err
			}
			fmt.Printf("Added sprint %d at %.1fkm\n", id, location)
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot add sprint", err)
		}
	},
}

var checkpointClimbCmd = &cobra.Command{
	Use:     "climb STAGE_ID LOCATION_KM",
	Short:   "Add a categorised climb",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		categoryStr, _ := cmd.Flags().GetString("category")
		var gradient, length *float64
		if cmd.Flags().Changed("gradient") {
			v, _ := cmd.Flags().GetFloat64("gradient")
			gradient = &v
		}
		if cmd.Flags().Changed("length") {
			v, _ := cmd.Flags().GetFloat64("length")
			length = &v
		}

		stageID, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot add climb", err)
		}
		location, err := parseLocation(args[1])
		if err != nil {
			contract.LogFatal("Cannot add climb", err)
		}
		category := schema.CheckpointType(strings.ToUpper(strings.TrimSpace(categoryStr)))

		err = mutatePortal(func(s *store.Store) error {
			id, err := s.AddClimb(stageID, location, category, gradient, length)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s climb %d at %.1fkm\n", category, id, location)
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot add climb", err)
		}
	},
}

var checkpointRemoveCmd = &cobra.Command{
	Use:     "remove CHECKPOINT_ID",
	Short:   "Remove a checkpoint from a stage in preparation",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("checkpoint", args[0])
		if err != nil {
			contract.LogFatal("Cannot remove checkpoint", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.RemoveCheckpoint(id) }); err != nil {
			contract.LogFatal("Cannot remove checkpoint", err)
		}
		fmt.Println("Checkpoint removed.")
	},
}
