package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// teamCmd groups team management.
var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Create, list and remove teams",
	Long: `Manage the teams of the portal.

Teams live outside races. Removing a team removes its riders and every result
those riders registered.

Examples:
  peloton team create "Blue Arrows" --description "Continental squad"
  peloton team riders 1`,
}

var teamCreateCmd = &cobra.Command{
	Use:     "create NAME",
	Short:   "Create a team",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		err := mutatePortal(func(s *store.Store) error {
			id, err := s.CreateTeam(args[0], description)
			if err != nil {
				return err
			}
			fmt.Printf("Created team %d: %s\n", id, args[0])
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot create team", err)
		}
	},
}

var teamListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every team",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list teams", err)
		}
		for _, id := range s.TeamIDs() {
			team, err := s.Team(id)
			if err != nil {
				contract.LogFatal("Cannot list teams", err)
			}
			fmt.Printf("%d\t%s\t%d riders\n", team.ID, team.Name, len(team.RiderIDs))
		}
	},
}

var teamRidersCmd = &cobra.Command{
	Use:     "riders TEAM_ID",
	Short:   "List the riders of a team",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("team", args[0])
		if err != nil {
			contract.LogFatal("Cannot list riders", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot list riders", err)
		}
		riderIDs, err := s.TeamRiders(id)
		if err != nil {
			contract.LogFatal("Cannot list riders", err)
		}
		for _, riderID := range riderIDs {
			rider, err := s.Rider(riderID)
			if err != nil {
				contract.LogFatal("Cannot list riders", err)
			}
			fmt.Printf("%d\t%s\t%d\n", rider.ID, rider.Name, rider.YearOfBirth)
		}
	},
}

var teamRemoveCmd = &cobra.Command{
	Use:     "remove TEAM_ID",
	Short:   "Remove a team with its riders and their results",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("team", args[0])
		if err != nil {
			contract.LogFatal("Cannot remove team", err)
		}
		if err := mutatePortal(func(s *store.Store) error { return s.RemoveTeam(id) }); err != nil {
			contract.LogFatal("Cannot remove team", err)
		}
		fmt.Println("Team removed.")
	},
}
