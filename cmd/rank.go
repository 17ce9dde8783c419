package cmd

import (
	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd groups the ranking commands.
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a stage or classify a race",
	Long: `Rank riders the way the race jury does.

Stage rankings order riders by elapsed time. Riders who cross the line less than one
second behind the rider ahead share that rider's time (time trials excluded).
Race classifications sum the adjusted times or the points of every concluded stage.

Output honours --output (text, csv, json), --output-file and --limit.`,
}

var rankStageCmd = &cobra.Command{
	Use:   "stage STAGE_ID",
	Short: "Rank the riders of a stage with adjusted times and points",
	Long: `Rank the riders of a stage.

Each row shows the adjusted elapsed time, the gap to the winner and the sprint and
mountain points earned in the stage. A stage still in preparation ranks empty.

Examples:
  peloton rank stage 2
  peloton rank stage 2 --output csv --output-file stage2.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("stage", args[0])
		if err != nil {
			contract.LogFatal("Cannot rank stage", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot rank stage", err)
		}
		if err := core.ExecuteStageRanking(rootCtx, cfg, s, id); err != nil {
			contract.LogFatal("Cannot rank stage", err)
		}
	},
}

var rankRaceCmd = &cobra.Command{
	Use:   "race RACE_ID",
	Short: "Classify the riders of a race",
	Long: `Classify the riders of a race across all its concluded stages.

Classifications:
  general  - lowest total adjusted time (yellow jersey)
  points   - most sprint points (green jersey)
  mountain - most mountain points (polka dot jersey)

Riders must finish every concluded stage to be classified.

Examples:
  peloton rank race 1
  peloton rank race 1 --classification mountain --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := parseID("race", args[0])
		if err != nil {
			contract.LogFatal("Cannot classify race", err)
		}
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot classify race", err)
		}
		if err := core.ExecuteRaceClassification(rootCtx, cfg, s, id); err != nil {
			contract.LogFatal("Cannot classify race", err)
		}
	},
}
