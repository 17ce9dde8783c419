package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// resultCmd groups result management.
var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Register, show and delete rider results",
	Long: `Manage the timestamps a rider registered in a stage.

A result holds the start, one timestamp per checkpoint in order, then the finish.
Each timestamp is RFC3339 or a time of day. A time of day lands on the date of the
stage start and rolls over to the next day when it would go backwards.

Examples:
  # Stage with one sprint and one climb: start, sprint, climb, finish
  peloton result register 2 1 09:00 10:42:10 12:58:03 13:12:09.400

  # Show registered times with elapsed and adjusted times
  peloton result show 2 1`,
}

var resultRegisterCmd = &cobra.Command{
	Use:     "register STAGE_ID RIDER_ID TIMES...",
	Short:   "Register the timestamps of a rider in a stage",
	Args:    cobra.MinimumNArgs(4),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		stageID, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot register result", err)
		}
		riderID, err := parseID("rider", args[1])
		if err != nil {
			contract.LogFatal("Cannot register result", err)
		}
		err = mutatePortal(func(s *store.Store) error {
			stage, err := s.Stage(stageID)
			if err != nil {
				return err
			}
			times, err := contract.ParseCheckpointTimes(stage.StartTime, args[2:])
			if err != nil {
				return fmt.Errorf("%w: %v", contract.ErrInvalidArgument, err)
			}
			return s.RegisterResult(stageID, riderID, times)
		})
		if err != nil {
			contract.LogFatal("Cannot register result", err)
		}
		fmt.Println("Result registered.")
	},
}

var resultShowCmd = &cobra.Command{
	Use:     "show STAGE_ID RIDER_ID",
	Short:   "Show the timestamps and elapsed times of a rider in a stage",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		stageID, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		riderID, err := parseID("rider", args[1])
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		engine := core.NewEngine(s)
		times, err := engine.RiderResults(stageID, riderID)
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		if len(times) == 0 {
			fmt.Printf("Rider %d has no result in stage %d.\n", riderID, stageID)
			return
		}
		for i, t := range times {
			fmt.Printf("%d\t%s\n", i, t.Format(contract.DateTimeFormat))
		}
		elapsed, _, err := engine.RawElapsed(stageID, riderID)
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		adjusted, _, err := engine.AdjustedElapsed(stageID, riderID)
		if err != nil {
			contract.LogFatal("Cannot show result", err)
		}
		fmt.Printf("elapsed\t%s\n", contract.FormatDuration(elapsed))
		fmt.Printf("adjusted\t%s\n", contract.FormatDuration(adjusted))
	},
}

var resultDeleteCmd = &cobra.Command{
	Use:     "delete STAGE_ID RIDER_ID",
	Short:   "Delete the result of a rider in a stage",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		stageID, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot delete result", err)
		}
		riderID, err := parseID("rider", args[1])
		if err != nil {
			contract.LogFatal("Cannot delete result", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.DeleteResult(stageID, riderID) }); err != nil {
			contract.LogFatal("Cannot delete result", err)
		}
		fmt.Println("Result deleted.")
	},
}
