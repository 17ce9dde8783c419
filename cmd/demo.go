package cmd

import (
	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/snapshot"
	"github.com/huangsam/peloton/internal/store"
	"github.com/spf13/cobra"
)

// demoCmd runs the built-in demo race.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a small demo race and print its rankings",
	Long: `Build "Tour de Demo": one flat stage, one mountain stage and one time trial with
six riders in two teams. Every stage ranking and all three classifications are printed.

By default the demo runs in memory. Use --save to write it to the portal file instead,
replacing what is there.

Examples:
  peloton demo
  peloton demo --save --portal demo.json
  peloton demo --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		save, _ := cmd.Flags().GetBool("save")
		s := store.New()
		if err := core.ExecuteDemo(rootCtx, cfg, s); err != nil {
			contract.LogFatal("Cannot run demo", err)
		}
		if save {
			if err := snapshot.SaveFile(s, cfg.PortalFile); err != nil {
				contract.LogFatal("Cannot save demo", err)
			}
		}
	},
}
