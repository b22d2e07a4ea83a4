// Package main provides a performance benchmarking tool for the Tomato CLI.
// It generates synthetic vaults of different sizes and measures execution times
// per command, running each test multiple times, treating the first successful
// cached run as cold and averaging the rest as warm, and writes the results as CSV.
//
// Prerequisites:
// - tomato binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic vaults are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Vault       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	VaultSizes  map[string]int // vault name -> number of notes
	VaultOrder  []string
}

// benchmarkCommand is one CLI invocation and the phrase its output ends with.
type benchmarkCommand struct {
	Name             string
	Args             []string
	CompletionPhrase string
}

var benchmarkCommands = []benchmarkCommand{
	{Name: "today", Args: []string{"today"}, CompletionPhrase: "computed in"},
	{Name: "report", Args: []string{"report"}, CompletionPhrase: "Report completed in"},
	{Name: "cleanup", Args: []string{"cleanup", "--dry-run"}, CompletionPhrase: "Cleanup completed in"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		VaultSizes: map[string]int{
			"small":  100,
			"medium": 1000,
			"large":  10000,
		},
		VaultOrder: []string{"small", "medium", "large"},
	}

	if _, err := exec.LookPath("tomato"); err != nil {
		fmt.Printf("Prerequisites check failed: tomato binary not found in PATH\n")
		os.Exit(1)
	}

	for _, name := range config.VaultOrder {
		if err := generateVault(filepath.Join(config.WorkDir, name), config.VaultSizes[name]); err != nil {
			fmt.Printf("Failed to generate vault %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// generateVault writes n notes: every third one is a project, a third of those hierarchical.
func generateVault(dir string, n int) error {
	if err := os.MkdirAll(filepath.Join(dir, "projects"), 0o755); err != nil {
		return err
	}
	for i := range n {
		var text string
		switch {
		case i%9 == 0:
			text = fmt.Sprintf("---\npageType: project\nreportKey: p%d\nfront_sub_done_today: %d\nback_sub_done_today: %d\n---\n# Project %d\n", i, i%4, i%3, i)
		case i%3 == 0:
			text = fmt.Sprintf("---\npageType: project\nreportKey: p%d\ndoneToday: %d\n---\n# Project %d\n", i, i%5, i)
		default:
			text = fmt.Sprintf("---\ntags: [note]\n---\n# Note %d\n%s\n", i, strings.Repeat("lorem ipsum ", 50))
		}
		if err := os.WriteFile(filepath.Join(dir, "projects", fmt.Sprintf("note-%05d.md", i)), []byte(text), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across the generated vaults
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d vaults, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.VaultOrder), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.VaultOrder {
		fmt.Printf("Benchmarking %s (%d notes)\n", name, config.VaultSizes[name])
		vaultPath := filepath.Join(config.WorkDir, name)
		for _, c := range benchmarkCommands {
			results = append(results, runBenchmarkSuite(config, name, vaultPath, c))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, vaultPath string, command benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command.Name, name)
	cacheFile := filepath.Join(config.WorkDir, name+"_cache.db")

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, vaultPath, command, cacheBackend, cacheFile, numRuns)
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

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty cache
	_ = os.Remove(cacheFile)
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Vault:       name,
		Command:     command.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a tomato command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, vaultPath string, command benchmarkCommand, cacheBackend, cacheFile string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command.Args...)
	args = append(args, "--cache-backend", cacheBackend, "--workers", fmt.Sprint(config.Workers), "--date", "2024-03-10")
	if cacheBackend == "sqlite" {
		args = append(args, "--cache-db-connect", cacheFile)
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("tomato", args...)
		cmd.Dir = vaultPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), command.CompletionPhrase) {
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

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/tomato_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"vault", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Vault, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range benchmarkCommands {
		fmt.Printf("%s:\n", c.Name)
		for _, result := range results {
			if result.Command == c.Name {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Vault, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
