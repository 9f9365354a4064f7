// Package main provides a performance benchmarking tool for the touchline CLI.
// It generates synthetic tracking files of increasing match length, then measures
// execution times of the model commands, running each test multiple times, treating the
// first successful cached run as cold and averaging the rest as warm, and writes a CSV
// for performance analysis and documentation.
//
// Prerequisites:
// - touchline binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory the synthetic tracking files are written to
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Framerate   int
	Entities    int
	NoCacheRuns int
	CacheRuns   int
	// Datasets maps a dataset name to its length in minutes of play.
	Datasets map[string]int
	Order    []string
}

// commands lists the CLI invocations benchmarked per dataset, keyed by a short name.
var commands = map[string][]string{
	"kinematics": {"kinematics"},
	"centroid":   {"centroid", "--exclude", "0", "--window", "300"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Framerate:   25,
		Entities:    11,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets:    map[string]int{"5min": 5, "half": 45, "match": 90},
		Order:       []string{"5min", "half", "match"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("touchline", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
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

// checkPrerequisites verifies that the touchline binary and the work directory exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("touchline"); err != nil {
		return fmt.Errorf("touchline binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// writeDataset writes a wide tracking CSV of entities jogging around the pitch.
func writeDataset(path string, frames, entities, framerate int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	header := make([]string, 0, 2*entities)
	for e := range entities {
		header = append(header, "x"+strconv.Itoa(e), "y"+strconv.Itoa(e))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	rng := rand.New(rand.NewPCG(42, uint64(entities)))
	phase := make([]float64, entities)
	for e := range phase {
		phase[e] = rng.Float64() * 2 * math.Pi
	}
	row := make([]string, 2*entities)
	for f := range frames {
		t := float64(f) / float64(framerate)
		for e := range entities {
			x := 52.5 + 40*math.Sin(t/30+phase[e]) + rng.NormFloat64()*0.05
			y := 34 + 25*math.Cos(t/45+phase[e]) + rng.NormFloat64()*0.05
			row[2*e] = strconv.FormatFloat(x, 'f', 2, 64)
			row[2*e+1] = strconv.FormatFloat(y, 'f', 2, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarks generates every dataset and benchmarks each command on it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Order), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.Order {
		frames := config.Datasets[name] * 60 * config.Framerate
		path := filepath.Join(config.WorkDir, name+".csv")
		fmt.Printf("Generating %s (%d frames x %d entities)\n", name, frames, config.Entities)
		if err := writeDataset(path, frames, config.Entities, config.Framerate); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}

		for _, command := range []string{"kinematics", "centroid"} {
			results = append(results, runBenchmarkSuite(config, name, path, command))
		}
	}
	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, path, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a touchline command multiple times with the given cache backend and
// returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, path, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, commands[command]...)
	args = append(args, path, "--framerate", strconv.Itoa(config.Framerate), "--cache-backend", cacheBackend)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("touchline", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "centroid" {
		return strings.Contains(outputStr, "Summarized") && strings.Contains(outputStr, "windows in")
	}
	return strings.Contains(outputStr, "Analysis completed in") && strings.Contains(outputStr, "Cache backend")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("touchline_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printCommandSummary(results, "kinematics", "Kinematics:")
	printCommandSummary(results, "centroid", "Centroid:")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
