package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// WriteRaceDetails outputs the race summaries, dispatching based on the output format configured.
func WriteRaceDetails(races []schema.RaceDetails, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error {
			if races == nil {
				races = []schema.RaceDetails{}
			}
			return writeJSON(w, races)
		},
		func(w io.Writer) error { return writeRaceDetailsCSV(w, races) },
		func(w io.Writer) error { return writeRaceDetailsTable(w, races, cfg) },
	)
}

func writeRaceDetailsTable(w io.Writer, races []schema.RaceDetails, cfg *contract.Config) error {
	nameWidth := GetMaxTableNameWidth(cfg, 30)
	data := make([][]string, 0, len(races))
	for _, r := range races {
		data = append(data, []string{
			strconv.Itoa(r.ID),
			contract.TruncateName(r.Name, nameWidth),
			contract.TruncateName(r.Description, nameWidth),
			strconv.Itoa(r.NumberOfStages),
			fmt.Sprintf("%.1f", r.TotalLength),
		})
	}
	return writeTable(w, []string{"ID", "Name", "Description", "Stages", "Km"}, data)
}

func writeRaceDetailsCSV(w io.Writer, races []schema.RaceDetails) error {
	header := []string{"id", "name", "description", "stages", "total_length_km"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range races {
			rec := []string{
				strconv.Itoa(r.ID),
				r.Name,
				r.Description,
				strconv.Itoa(r.NumberOfStages),
				strconv.FormatFloat(r.TotalLength, 'f', 1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
