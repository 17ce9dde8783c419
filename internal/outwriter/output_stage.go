package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// stageFixedWidth covers Rank, Time, Adjusted, Gap, Sprint and Mountain with borders.
const stageFixedWidth = 60

// WriteStageStandings outputs a stage ranking, dispatching based on the output format configured.
func WriteStageStandings(stage schema.Stage, rows []schema.StageStanding, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeStageJSON(w, stage, rows) },
		func(w io.Writer) error { return writeStageCSV(w, rows) },
		func(w io.Writer) error { return writeStageTable(w, stage, rows, cfg, duration) },
	)
}

// writeStageTable generates and writes the human-readable table.
func writeStageTable(w io.Writer, stage schema.Stage, rows []schema.StageStanding, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Stage %d: %s (%s, %.1fkm)\n", stage.ID, stage.Name, stage.Type, stage.Length); err != nil {
		return err
	}
	nameWidth := GetMaxTableNameWidth(cfg, stageFixedWidth)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncateName(r.Rider, nameWidth),
			contract.TruncateName(r.Team, nameWidth),
			contract.FormatDuration(r.Elapsed),
			contract.FormatDuration(r.Adjusted),
			contract.FormatGap(r.Adjusted - rows[0].Adjusted),
			strconv.Itoa(r.Sprint),
			strconv.Itoa(r.Mountain),
		})
	}
	headers := []string{"Rank", "Rider", "Team", "Time", "Adjusted", "Gap", "Sprint", "Mountain"}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}
	if len(rows) == 0 && stage.Status == schema.PreparingStatus {
		_, err := fmt.Fprintf(w, "Stage %d is still being prepared\n", stage.ID)
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d riders\n", len(rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking computed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeStageCSV writes the ranking in CSV format.
func writeStageCSV(w io.Writer, rows []schema.StageStanding) error {
	header := []string{"rank", "rider_id", "rider", "team", "elapsed", "adjusted", "elapsed_ms", "adjusted_ms", "sprint_points", "mountain_points"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Rank),
				strconv.Itoa(r.RiderID),
				r.Rider,
				r.Team,
				contract.FormatDuration(r.Elapsed),
				contract.FormatDuration(r.Adjusted),
				strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
				strconv.FormatInt(r.Adjusted.Milliseconds(), 10),
				strconv.Itoa(r.Sprint),
				strconv.Itoa(r.Mountain),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeStageJSON writes the ranking in JSON format.
func writeStageJSON(w io.Writer, stage schema.Stage, rows []schema.StageStanding) error {
	type JSONStage struct {
		StageID   int                    `json:"stage_id"`
		StageName string                 `json:"stage_name"`
		StageType schema.StageType       `json:"stage_type"`
		Status    schema.StageStatus     `json:"status"`
		Standings []schema.StageStanding `json:"standings"`
	}
	if rows == nil {
		rows = []schema.StageStanding{}
	}
	return writeJSON(w, JSONStage{
		StageID:   stage.ID,
		StageName: stage.Name,
		StageType: stage.Type,
		Status:    stage.Status,
		Standings: rows,
	})
}
