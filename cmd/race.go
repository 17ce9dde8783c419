package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// raceCmd groups race management.
var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Create, inspect and remove races",
	Long: `Manage the races kept in the portal file.

A race owns its stages in the order they were added. Removing a race removes its
stages, their checkpoints, every result registered in them and their recorded points.

Subcommands:
  create - Create a race
  list   - List every race
  show   - Show one race with its stage count and length
  stages - List the stage ids of a race in order
  remove - Remove a race by id or by name

Examples:
  # Create a race and list the portal
  peloton race create "Tour de Test" --description "Three weeks in July"
  peloton race list --output json`,
}

var raceCreateCmd = &cobra.Command{
	Use:     "create NAME",
	Short:   "Create a race",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		err := mutatePortal(func(s *store.Store) error {
			id, err := s.CreateRace(args[0], description)
			if err != nil {
				return err
			}
			fmt.Printf("Created race %d: %s\n", id, args[0])
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot create race", err)
		}
	},
}

var raceListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every race",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list races", err)
		}
		if err := core.ExecuteRaceList(rootCtx, cfg, s); err != nil {
			contract.LogFatal("Cannot list races", err)
		}
	},
}

var raceShowCmd = &cobra.Command{
	Use:     "show RACE_ID",
	Short:   "Show one race with its stage count and total length",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("race", args[0])
		if err != nil {
			contract.LogFatal("Cannot show race", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot show race", err)
		}
		details, err := s.RaceDetails(id)
		if err != nil {
			contract.LogFatal("Cannot show race", err)
		}
		fmt.Println(details)
	},
}

var raceStagesCmd = &cobra.Command{
	Use:     "stages RACE_ID",
	Short:   "List the stages of a race in order",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("race", args[0])
		if err != nil {
			contract.LogFatal("Cannot list stages", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list stages", err)
		}
		stageIDs, err := s.RaceStages(id)
		if err != nil {
			contract.LogFatal("Cannot list stages", err)
		}
		for _, stageID := range stageIDs {
			st, err := s.Stage(stageID)
			if err != nil {
				contract.LogFatal("Cannot list stages", err)
			}
			fmt.Printf("%d\t%s\t%s\t%.1fkm\t%s\t%s\n", st.ID, st.Name, st.Type, st.Length,
				st.StartTime.Format(contract.DateTimeFormat), st.Status)
		}
	},
}

var raceRemoveCmd = &cobra.Command{
	Use:   "remove [RACE_ID]",
	Short: "Remove a race and everything it owns",
	Long: `Remove a race with its stages, checkpoints, results and recorded points.

Examples:
  peloton race remove 3
  peloton race remove --name "Tour de Test"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		if (name == "") == (len(args) == 0) {
			contract.LogFatal("Cannot remove race", fmt.Errorf("%w: give either a race id or --name", contract.ErrInvalidArgument))
		}
		err := mutatePortal(func(s *store.Store) error {
			if name != "" {
				return s.RemoveRaceByName(name)
			}
			id, err := parseID("race", args[0])
			if err != nil {
				return err
			}
			return s.RemoveRace(id)
		})
		if err != nil {
			contract.LogFatal("Cannot remove race", err)
		}
		fmt.Println("Race removed.")
	},
}
