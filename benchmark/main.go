// Package main provides a performance benchmarking tool for the Glucodip CLI.
// It generates synthetic CGM and food log exports at several dataset sizes,
// measures execution times across command types, treating the first
// successful cached run as cold and averaging the rest as warm, and writes
// CSV output for performance analysis and documentation.
//
// Prerequisites:
// - glucodip binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic exports are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	DatasetDays []int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		DatasetDays: []int{7, 30, 90, 365},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := generateDatasets(config); err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the glucodip binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("glucodip"); err != nil {
		return fmt.Errorf("glucodip binary not found in PATH")
	}
	return nil
}

// generateDatasets writes one synthetic export directory per dataset size.
// Glucose follows a five minute cadence with sinusoidal meal responses and
// a sharp post-lunch drop, so the crash detector has real work to do.
func generateDatasets(config BenchmarkConfig) error {
	for _, days := range config.DatasetDays {
		dir := datasetDir(config, days)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := writeGlucoseExport(filepath.Join(dir, "synthetic_glucose.csv"), days); err != nil {
			return err
		}
		if err := writeFoodExport(filepath.Join(dir, "synthetic_servings.csv"), days); err != nil {
			return err
		}
		fmt.Printf("Generated %d-day dataset in %s\n", days, dir)
	}
	return nil
}

func datasetDir(config BenchmarkConfig, days int) string {
	return filepath.Join(config.WorkDir, fmt.Sprintf("dataset_%dd", days))
}

func writeGlucoseExport(path string, days int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Device Timestamp", "Historic Glucose mg/dL"}); err != nil {
		return err
	}

	base := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	for day := range days {
		dayStart := base.AddDate(0, 0, day)
		// 288 samples per day at five minute cadence
		for i := range 288 {
			ts := dayStart.Add(time.Duration(i) * 5 * time.Minute)
			minutes := float64(i * 5)

			// Baseline plus three meal bumps; the 13:00 bump decays fast
			// enough to trip the crash detector most days.
			glucose := 95.0
			glucose += 45 * mealBump(minutes, 8*60, 90)
			glucose += 70 * mealBump(minutes, 13*60, 55)
			glucose += 35 * mealBump(minutes, 19*60, 100)

			row := []string{ts.Format("2006-01-02 15:04"), fmt.Sprintf("%.0f", glucose)}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}

// mealBump is a skewed pulse: rises over ~40 minutes, decays over the given
// tail. Zero outside the response region.
func mealBump(minutes, mealStart, tail float64) float64 {
	offset := minutes - mealStart
	if offset < 0 || offset > 40+3*tail {
		return 0
	}
	if offset <= 40 {
		return offset / 40
	}
	return math.Exp(-(offset - 40) / tail)
}

func writeFoodExport(path string, days int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Day", "Time", "Group", "Food Name", "Energy (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)", "Fiber (g)", "Sugars (g)"}
	if err := writer.Write(header); err != nil {
		return err
	}

	meals := []struct {
		clock, group, food                      string
		kcal, protein, carbs, fat, fiber, sugar float64
	}{
		{"08:00", "Breakfast", "Oatmeal with banana", 420, 12, 72, 9, 8, 24},
		{"13:00", "Lunch", "White rice with chicken", 680, 38, 95, 14, 2, 3},
		{"19:00", "Dinner", "Salmon with vegetables", 540, 42, 28, 26, 9, 8},
	}

	base := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	for day := range days {
		dayStr := base.AddDate(0, 0, day).Format("2006-01-02")
		for _, m := range meals {
			row := []string{
				dayStr, m.clock, m.group, m.food,
				fmt.Sprintf("%.0f", m.kcal), fmt.Sprintf("%.0f", m.protein), fmt.Sprintf("%.0f", m.carbs),
				fmt.Sprintf("%.0f", m.fat), fmt.Sprintf("%.0f", m.fiber), fmt.Sprintf("%.0f", m.sugar),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}

// runBenchmarks executes all benchmark tests across dataset sizes.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.DatasetDays), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, days := range config.DatasetDays {
		dataset := fmt.Sprintf("%dd", days)
		fmt.Printf("Benchmarking %s\n", dataset)

		dir := datasetDir(config, days)
		for _, command := range []string{"crashes", "meals", "stats", "triggers"} {
			results = append(results, runBenchmarkSuite(config, dataset, dir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-store and store-backed benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, dir, command string) BenchmarkResult {
	fmt.Printf("Running %s analysis on %s\n", command, dataset)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dir, command, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs (pure computation, no result memoization)
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs (first run cold, rest hit the analysis cache)
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a glucodip command multiple times with the given
// store backend and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, dir, command, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, dir, "--store-backend", storeBackend, "--start", "2 years ago"}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("glucodip", args...)
		cmd.Dir = dir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/glucodip_benchmark_%s.csv", timestamp)

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
	if err := writer.Write([]string{"dataset", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	titles := map[string]string{
		"crashes":  "Crashes Analysis:",
		"meals":    "Meals Analysis:",
		"stats":    "Stats Analysis:",
		"triggers": "Triggers Analysis:",
	}
	for _, command := range []string{"crashes", "meals", "stats", "triggers"} {
		printCommandSummary(results, command, titles[command])
	}

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-6s: No-store: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
