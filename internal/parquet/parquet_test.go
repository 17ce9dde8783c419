package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/peloton/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, time.July, 4, 12, 0, 0, 0, time.UTC)

func sampleStageRows() []StageResultRow {
	stage := schema.Stage{ID: 2, RaceID: 1, Name: "Col du Test", Type: schema.HighMountainStage, StartTime: testStart}
	return ConvertStageStandings(stage, []schema.StageStanding{
		{Rank: 1, RiderID: 4, Rider: "Alpha", Team: "Azure", Elapsed: time.Hour, Adjusted: time.Hour, Sprint: 20, Mountain: 25},
		{Rank: 2, RiderID: 7, Rider: "Bravo", Team: "Azure", Elapsed: time.Hour + 500*time.Millisecond, Adjusted: time.Hour, Sprint: 17, Mountain: 18},
		{Rank: 3, RiderID: 9, Rider: "Charlie", Team: "Granite", Elapsed: time.Hour + 42*time.Second, Adjusted: time.Hour + 42*time.Second, Sprint: 15, Mountain: 14},
	})
}

func sampleRaceRows() []RaceClassificationRow {
	race := schema.Race{ID: 1, Name: "Tour"}
	return ConvertRaceStandings(race, []schema.RaceStanding{
		{Rank: 1, GCRank: 1, RiderID: 4, Rider: "Alpha", Team: "Azure", Total: 3 * time.Hour, Points: 70},
		{Rank: 2, GCRank: 2, RiderID: 9, Rider: "Charlie", Team: "Granite", Total: 3*time.Hour + time.Minute, Gap: time.Minute, Points: 35, Mountain: 14},
	})
}

func TestStageResultRowStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(StageResultRow))
	require.NotNil(t, schema)

	expectedColumns := []string{
		"race_id", "stage_id", "stage_name", "stage_type", "stage_start", "rank",
		"rider_id", "rider_name", "team_name", "elapsed_ms", "adjusted_ms", "gap_ms",
		"sprint_points", "mountain_points",
	}
	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRaceClassificationRowStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(RaceClassificationRow))
	require.NotNil(t, schema)

	expectedColumns := []string{
		"race_id", "race_name", "gc_rank", "rider_id", "rider_name", "team_name",
		"total_ms", "gap_ms", "points", "mountain_points",
	}
	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertStageStandings(t *testing.T) {
	rows := sampleStageRows()
	require.Len(t, rows, 3)

	assert.Equal(t, int32(1), rows[0].RaceID)
	assert.Equal(t, "HIGH_MOUNTAIN", rows[0].StageType)
	assert.Nil(t, rows[0].GapMs, "winner has no gap")
	assert.Nil(t, rows[1].GapMs, "bunched rider has no gap")
	require.NotNil(t, rows[2].GapMs)
	assert.Equal(t, int64(42000), *rows[2].GapMs)
	assert.Equal(t, int64(3600500), rows[1].ElapsedMs)
	assert.Equal(t, int64(3600000), rows[1].AdjustedMs)
}

func TestWriteStageResultsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "stage_results.parquet")
	data := sampleStageRows()

	require.NoError(t, WriteStageResultsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[StageResultRow](file)
	defer reader.Close()

	readData := make([]StageResultRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].RiderID, readData[i].RiderID)
		assert.Equal(t, data[i].RiderName, readData[i].RiderName)
		assert.Equal(t, data[i].AdjustedMs, readData[i].AdjustedMs)
		assert.Equal(t, data[i].MountainPoints, readData[i].MountainPoints)
		assert.WithinDuration(t, data[i].StageStart, readData[i].StageStart, time.Nanosecond)
		if data[i].GapMs == nil {
			assert.Nil(t, readData[i].GapMs)
		} else {
			require.NotNil(t, readData[i].GapMs)
			assert.Equal(t, *data[i].GapMs, *readData[i].GapMs)
		}
	}
}

func TestWriteRaceClassificationsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "race_classifications.parquet")
	data := sampleRaceRows()

	require.NoError(t, WriteRaceClassificationsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RaceClassificationRow](file)
	defer reader.Close()

	readData := make([]RaceClassificationRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)

	assert.Equal(t, "Tour", readData[0].RaceName)
	assert.Nil(t, readData[0].GapMs)
	require.NotNil(t, readData[1].GapMs)
	assert.Equal(t, int64(60000), *readData[1].GapMs)
	assert.Equal(t, int32(35), readData[1].Points)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteStageResultsParquet([]StageResultRow{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRaceClassificationsParquet(sampleRaceRows(), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}
