package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// riderCmd groups rider management.
var riderCmd = &cobra.Command{
	Use:   "rider",
	Short: "Add and remove riders",
	Long: `Manage the riders of a team.

Removing a rider also removes every result they registered. Points already
recorded for past stages are kept.

Examples:
  peloton rider add 1 "Lena Vogt" --born 1998
  peloton rider remove 4`,
}

var riderAddCmd = &cobra.Command{
	Use:     "add TEAM_ID NAME",
	Short:   "Add a rider to a team",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		born, _ := cmd.Flags().GetInt("born")
		teamID, err := parseID("team", args[0])
		if err != nil {
			contract.LogFatal("Cannot add rider", err)
		}
		err = mutatePortal(func(s *store.Store) error {
			id, err := s.CreateRider(teamID, args[1], born)
			if err != nil {
				return err
			}
			fmt.Printf("Added rider %d: %s\n", id, args[1])
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot add rider", err)
		}
	},
}

var riderRemoveCmd = &cobra.Command{
	Use:     "remove RIDER_ID",
	Short:   "Remove a rider and their results",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("rider", args[0])
		if err != nil {
			contract.LogFatal("Cannot remove rider", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.RemoveRider(id) }); err != nil {
			contract.LogFatal("Cannot remove rider", err)
		}
		fmt.Println("Rider removed.")
	},
}
