// Package main provides a performance benchmarking tool for the Peloton CLI.
// It generates a synthetic grand tour, then measures execution times of the ranking,
// export and archive commands against it. Each command runs several times; the first
// successful run counts as cold and the rest are averaged as warm. Results go to CSV.
//
// Prerequisites:
// - peloton binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated portal and archive files
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/peloton/internal/snapshot"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Field    string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Runs    int
	Fields  []FieldSize
}

// FieldSize describes one synthetic race.
type FieldSize struct {
	Name   string
	Stages int
	Teams  int
	Riders int // Per team
}

// benchCommand is a CLI invocation to time.
type benchCommand struct {
	name string
	args []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    4,
		Fields: []FieldSize{
			{Name: "classic", Stages: 1, Teams: 25, Riders: 7},
			{Name: "week", Stages: 8, Teams: 22, Riders: 7},
			{Name: "grand-tour", Stages: 21, Teams: 22, Riders: 8},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the peloton binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("peloton"); err != nil {
		return fmt.Errorf("peloton binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates every field and times the commands against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fields, %v timeout, %d runs\n", len(config.Fields), config.Timeout, config.Runs)

	for _, field := range config.Fields {
		portal := filepath.Join(config.WorkDir, field.Name+".json")
		if err := generatePortal(field, portal); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", field.Name, err)
		}
		fmt.Printf("Benchmarking %s (%d stages, %d riders)\n", field.Name, field.Stages, field.Teams*field.Riders)

		archiveDB := filepath.Join(config.WorkDir, field.Name+".db")
		env := []string{
			"PELOTON_PORTAL=" + portal,
			"PELOTON_ARCHIVE_BACKEND=sqlite",
			"PELOTON_ARCHIVE_DB_CONNECT=" + archiveDB,
		}
		commands := []benchCommand{
			{"rank-stage", []string{"rank", "stage", strconv.Itoa(field.Stages), "--limit", "1000"}},
			{"rank-general", []string{"rank", "race", "1", "--limit", "1000"}},
			{"rank-points", []string{"rank", "race", "1", "--classification", "points", "--limit", "1000"}},
			{"rank-mountain", []string{"rank", "race", "1", "--classification", "mountain", "--limit", "1000"}},
			{"export", []string{"export", "--output-file", filepath.Join(config.WorkDir, "export", field.Name)}},
			{"archive-push", []string{"archive", "push"}},
		}
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, field.Name, c, env))
		}
	}

	return results, nil
}

// generatePortal writes a synthetic race with a result for every rider in every stage
func generatePortal(field FieldSize, path string) error {
	s := store.New()
	raceID, err := s.CreateRace("Benchmark Tour", field.Name)
	if err != nil {
		return err
	}
	var riders []int
	for t := range field.Teams {
		teamID, err := s.CreateTeam(fmt.Sprintf("Team %02d", t+1), "")
		if err != nil {
			return err
		}
		for r := range field.Riders {
			riderID, err := s.CreateRider(teamID, fmt.Sprintf("Rider %02d-%d", t+1, r+1), 1990+r)
			if err != nil {
				return err
			}
			riders = append(riders, riderID)
		}
	}

	types := []schema.StageType{schema.FlatStage, schema.MediumMountainStage, schema.HighMountainStage, schema.TimeTrialStage}
	day := time.Date(2026, 7, 4, 11, 0, 0, 0, time.UTC)
	for i := range field.Stages {
		stageType := types[i%len(types)]
		start := day.AddDate(0, 0, i)
		stageID, err := s.AddStage(raceID, fmt.Sprintf("Stage %d", i+1), "", 180, start, stageType)
		if err != nil {
			return err
		}
		checkpoints := 0
		if stageType != schema.TimeTrialStage {
			if _, err := s.AddSprint(stageID, 90); err != nil {
				return err
			}
			if _, err := s.AddClimb(stageID, 150, schema.C1Climb, nil, nil); err != nil {
				return err
			}
			checkpoints = 2
		}
		if err := s.ConcludeStagePreparation(stageID); err != nil {
			return err
		}
		for n, riderID := range riders {
			// Small groups finish within a second of each other
			gap := time.Duration((n*7+i*13)%len(riders)) * 700 * time.Millisecond
			finish := start.Add(4*time.Hour + gap)
			times := []time.Time{start}
			for c := range checkpoints {
				times = append(times, start.Add(time.Duration(c+1)*time.Hour+gap/2))
			}
			times = append(times, finish)
			if err := s.RegisterResult(stageID, riderID, times); err != nil {
				return err
			}
		}
	}
	return snapshot.SaveFile(s, path)
}

// runBenchmarkSuite runs a command several times and summarises cold and warm times
func runBenchmarkSuite(config BenchmarkConfig, field string, c benchCommand, env []string) BenchmarkResult {
	fmt.Printf("  Running %s on %s (%d runs)\n", c.name, field, config.Runs)

	coldTime, times := runBenchmark(config, c.args, env)

	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Field:    field,
		Command:  c.name,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a peloton command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args, env []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("peloton", args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), env...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/peloton_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"field", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Field, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s %-14s: Cold: %s, Warm: %s\n", result.Field, result.Command, result.ColdTime, result.WarmTime)
	}
}
