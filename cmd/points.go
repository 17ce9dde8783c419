package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// pointsCmd groups the points commands.
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Record and list stage points snapshots",
	Long: `Stage points are always computed from the current results. Recording them keeps a
dated snapshot in the portal, for example when the jury publishes the official result.

Examples:
  peloton points record 2
  peloton points list 2`,
}

var pointsRecordCmd = &cobra.Command{
	Use:     "record STAGE_ID",
	Short:   "Compute the points of a stage and store them as a snapshot",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot record points", err)
		}
		err = mutatePortal(func(s *store.Store) error {
			snap, err := core.NewEngine(s).RecordPoints(id)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded points snapshot %s for %d riders\n", snap.ID, len(snap.Entries))
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot record points", err)
		}
	},
}

var pointsListCmd = &cobra.Command{
	Use:     "list [STAGE_ID]",
	Short:   "List recorded points snapshots, optionally for one stage",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		stageID := 0
		if len(args) == 1 {
			id, err := parseID("stage", args[0])
			if err != nil {
				contract.LogFatal("Cannot list points", err)
			}
			stageID = id
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list points", err)
		}
		for _, snap := range s.PointsSnapshots(stageID) {
			fmt.Printf("%s\tstage %d\t%s\n", snap.ID, snap.StageID, snap.RecordedAt.Format(contract.DateTimeFormat))
			for _, entry := range snap.Entries {
				fmt.Printf("  rider %d\tsprint %d\tmountain %d\n", entry.RiderID, entry.Sprint, entry.Mountain)
			}
		}
	},
}
