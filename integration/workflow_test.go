//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustRun runs peloton and fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runPeloton(t, dir, nil, args...)
	require.NoError(t, err)
	return out
}

// readCSV parses a CSV file into records without the header.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records[1:]
}

// TestStageWorkflow builds a one-stage race through the CLI and checks the ranking.
func TestStageWorkflow(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "race", "create", "Spring Classic", "--description", "One day")
	mustRun(t, dir, "stage", "add", "1", "Opening", "--length", "150", "--start", "2026-04-05T09:00:00Z", "--type", "FLAT")
	mustRun(t, dir, "checkpoint", "sprint", "1", "80")
	mustRun(t, dir, "stage", "conclude", "1")

	// Checkpoints are frozen once the stage waits for results
	_, err := runPeloton(t, dir, nil, "checkpoint", "sprint", "1", "100")
	assert.Error(t, err)

	mustRun(t, dir, "team", "create", "Red Line")
	mustRun(t, dir, "rider", "add", "1", "Ada Brun", "--born", "1995")
	mustRun(t, dir, "rider", "add", "1", "Noor Haas", "--born", "1998")
	mustRun(t, dir, "rider", "add", "1", "Pia Lenz", "--born", "2000")

	// Noor finishes half a second behind Ada, Pia a full minute later
	mustRun(t, dir, "result", "register", "1", "1", "09:00", "11:00", "12:30:00")
	mustRun(t, dir, "result", "register", "1", "2", "09:00", "11:00:01", "12:30:00.500")
	mustRun(t, dir, "result", "register", "1", "3", "09:00", "10:59:59", "12:31:00")

	_, err = runPeloton(t, dir, nil, "result", "register", "1", "1", "09:00", "11:00", "12:30:00")
	assert.Error(t, err, "duplicate results are rejected")

	out := filepath.Join(dir, "stage.csv")
	mustRun(t, dir, "rank", "stage", "1", "--output", "csv", "--output-file", out)
	rows := readCSV(t, out)
	require.Len(t, rows, 3)

	// rank, rider_id, rider, team, elapsed, adjusted, elapsed_ms, adjusted_ms, sprint_points, mountain_points
	assert.Equal(t, "Ada Brun", rows[0][2])
	assert.Equal(t, "Noor Haas", rows[1][2])
	assert.Equal(t, "Pia Lenz", rows[2][2])
	assert.Equal(t, rows[0][7], rows[1][7], "bunched riders share the adjusted time")
	assert.NotEqual(t, rows[1][6], rows[1][7])
	assert.Equal(t, "50", rows[0][8])
	assert.Equal(t, "20", rows[2][8], "third across the sprint line still scores finish points")

	show := mustRun(t, dir, "result", "show", "1", "2")
	assert.Contains(t, show, "adjusted")

	mustRun(t, dir, "result", "delete", "1", "3")
	mustRun(t, dir, "rank", "stage", "1", "--output", "csv", "--output-file", out)
	assert.Len(t, readCSV(t, out), 2)
}

// TestDemoClassificationAndArchive saves the demo, classifies it and round-trips it through SQLite.
func TestDemoClassificationAndArchive(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "demo", "--save")

	out := filepath.Join(dir, "gc.json")
	mustRun(t, dir, "rank", "race", "1", "--output", "json", "--output-file", out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), "Tour de Demo")

	mountain := mustRun(t, dir, "rank", "race", "1", "--classification", "mountain")
	assert.Contains(t, mountain, "Marco Ferri")

	mustRun(t, dir, "archive", "push")
	status := mustRun(t, dir, "archive", "status")
	assert.Contains(t, strings.ToLower(status), "sqlite")

	before, err := os.ReadFile(filepath.Join(dir, "portal.json"))
	require.NoError(t, err)

	mustRun(t, dir, "erase")
	list := mustRun(t, dir, "race", "list")
	assert.NotContains(t, list, "Tour de Demo")

	mustRun(t, dir, "archive", "pull")
	after, err := os.ReadFile(filepath.Join(dir, "portal.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	prefix := filepath.Join(dir, "export", "tour")
	mustRun(t, dir, "export", "--output-file", prefix)
	assert.FileExists(t, prefix+".stage_results.parquet")
	assert.FileExists(t, prefix+".race_classifications.parquet")

	mustRun(t, dir, "archive", "clear")
	assert.NoFileExists(t, filepath.Join(dir, ".peloton_archive.db"))
}

// TestInvalidArguments checks that bad input exits non-zero without touching the portal.
func TestInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "race", "create", "Spring Classic")

	tests := []struct {
		name string
		args []string
	}{
		{"non numeric id", []string{"race", "show", "abc"}},
		{"unknown race", []string{"race", "show", "42"}},
		{"short stage", []string{"stage", "add", "1", "Sprint", "--length", "2", "--start", "2026-04-05T09:00:00Z"}},
		{"bad start", []string{"stage", "add", "1", "Sprint", "--length", "20", "--start", "tomorrow"}},
		{"duplicate race", []string{"race", "create", "Spring Classic"}},
		{"bad classification", []string{"rank", "race", "1", "--classification", "sprint"}},
		{"bad limit", []string{"rank", "race", "1", "--limit", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runPeloton(t, dir, nil, tt.args...)
			assert.Error(t, err)
		})
	}

	list := mustRun(t, dir, "race", "list", "--output", "csv")
	assert.Equal(t, 1, strings.Count(list, "Spring Classic"))
}
