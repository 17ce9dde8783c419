package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// eraseCmd empties the portal.
var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Remove every race, team and result from the portal",
	Long: `Empty the portal file. Ids start again from 1.

WARNING: This action cannot be undone. Push to the archive first if you need a copy.

Examples:
  peloton archive push
  peloton erase`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := mutatePortal(func(s *store.Store) error {
			s.Erase()
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot erase portal", err)
		}
		fmt.Println("Portal erased.")
	},
}
