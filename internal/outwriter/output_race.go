package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// raceFixedWidth covers Rank, GC, Total, Gap, Points, Mountain and Jersey with borders.
const raceFixedWidth = 75

// jerseys returns the jersey labels held by each rider id.
// The points and mountain jerseys need at least one point to be awarded.
func jerseys(rows []schema.RaceStanding) map[int][]string {
	out := make(map[int][]string)
	var points, mountain *schema.RaceStanding
	for i := range rows {
		r := &rows[i]
		if r.GCRank == 1 {
			out[r.RiderID] = append(out[r.RiderID], contract.LeaderValue)
		}
		if r.Points > 0 && (points == nil || r.Points > points.Points || (r.Points == points.Points && r.GCRank < points.GCRank)) {
			points = r
		}
		if r.Mountain > 0 && (mountain == nil || r.Mountain > mountain.Mountain || (r.Mountain == mountain.Mountain && r.GCRank < mountain.GCRank)) {
			mountain = r
		}
	}
	if points != nil {
		out[points.RiderID] = append(out[points.RiderID], contract.PointsValue)
	}
	if mountain != nil {
		out[mountain.RiderID] = append(out[mountain.RiderID], contract.MountainValue)
	}
	return out
}

// WriteRaceStandings outputs a race classification, dispatching based on the output format configured.
func WriteRaceStandings(race schema.Race, rows []schema.RaceStanding, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeRaceJSON(w, race, rows, cfg) },
		func(w io.Writer) error { return writeRaceCSV(w, rows) },
		func(w io.Writer) error { return writeRaceTable(w, race, rows, cfg, duration) },
	)
}

// writeRaceTable generates and writes the human-readable table.
func writeRaceTable(w io.Writer, race schema.Race, rows []schema.RaceStanding, cfg *contract.Config, duration time.Duration) error {
	classification := cfg.Classification
	if classification == "" {
		classification = schema.GeneralClassification
	}
	if _, err := fmt.Fprintf(w, "Race %d: %s (%s classification)\n", race.ID, race.Name, classification); err != nil {
		return err
	}
	nameWidth := GetMaxTableNameWidth(cfg, raceFixedWidth)
	held := jerseys(rows)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		labels := make([]string, 0, len(held[r.RiderID]))
		for _, l := range held[r.RiderID] {
			labels = append(labels, contract.GetColorLabel(l))
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.GCRank),
			contract.TruncateName(r.Rider, nameWidth),
			contract.TruncateName(r.Team, nameWidth),
			contract.FormatDuration(r.Total),
			contract.FormatGap(r.Gap),
			strconv.Itoa(r.Points),
			strconv.Itoa(r.Mountain),
			strings.Join(labels, " "),
		})
	}
	headers := []string{"Rank", "GC", "Rider", "Team", "Total", "Gap", "Points", "Mountain", "Jersey"}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d riders over %d stages\n", len(rows), len(race.StageIDs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Classification computed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeRaceCSV writes the classification in CSV format.
func writeRaceCSV(w io.Writer, rows []schema.RaceStanding) error {
	header := []string{"rank", "gc_rank", "rider_id", "rider", "team", "total", "total_ms", "gap_ms", "points", "mountain_points", "jersey"}
	held := jerseys(rows)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Rank),
				strconv.Itoa(r.GCRank),
				strconv.Itoa(r.RiderID),
				r.Rider,
				r.Team,
				contract.FormatDuration(r.Total),
				strconv.FormatInt(r.Total.Milliseconds(), 10),
				strconv.FormatInt(r.Gap.Milliseconds(), 10),
				strconv.Itoa(r.Points),
				strconv.Itoa(r.Mountain),
				strings.Join(held[r.RiderID], "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRaceJSON writes the classification in JSON format.
func writeRaceJSON(w io.Writer, race schema.Race, rows []schema.RaceStanding, cfg *contract.Config) error {
	type JSONRaceStanding struct {
		Jerseys []string `json:"jerseys,omitempty"`
		schema.RaceStanding
	}
	type JSONRace struct {
		RaceID         int                   `json:"race_id"`
		RaceName       string                `json:"race_name"`
		Classification schema.Classification `json:"classification"`
		Standings      []JSONRaceStanding    `json:"standings"`
	}
	classification := cfg.Classification
	if classification == "" {
		classification = schema.GeneralClassification
	}
	held := jerseys(rows)
	out := JSONRace{RaceID: race.ID, RaceName: race.Name, Classification: classification, Standings: make([]JSONRaceStanding, len(rows))}
	for i, r := range rows {
		out.Standings[i] = JSONRaceStanding{Jerseys: held[r.RiderID], RaceStanding: r}
	}
	return writeJSON(w, out)
}
