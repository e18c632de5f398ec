// Package main provides a latency benchmarking tool for the storecheck CLI.
// It measures execution times of the read-only commands for every built-in checklist
// and draft backend, running each command several times, treating the first successful
// run as cold and averaging the rest as warm, and writes CSV output for comparison.
//
// Prerequisites:
// - storecheck binary installed and available in PATH
//
// Usage: go run benchmark/main.go [runs]
//
//	runs: Number of runs per command and backend (default 5)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the cold time and warm average of one command on one backend.
type BenchmarkResult struct {
	Checklist string
	Command   string
	Backend   string
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout    time.Duration
	Runs       int
	Checklists []string
	Backends   []string
	Commands   [][]string
	WorkDir    string
}

func main() {
	runs := 5
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 2 {
			fmt.Printf("Usage: %s [runs>=2]\n", os.Args[0])
			os.Exit(1)
		}
		runs = n
	}

	workDir, err := os.MkdirTemp("", "storecheck-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		Timeout:    30 * time.Second,
		Runs:       runs,
		Checklists: []string{"training", "brew-league-am", "hr"},
		Backends:   []string{"none", "file", "sqlite"},
		Commands: [][]string{
			{"score"},
			{"progress"},
			{"draft", "show"},
			{"catalog", "columns"},
		},
		WorkDir: workDir,
	}

	if _, err := exec.LookPath("storecheck"); err != nil {
		fmt.Printf("Prerequisites check failed: storecheck binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every command for each checklist and draft backend.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d checklists, %d backends, %v timeout, %d runs\n",
		len(config.Checklists), len(config.Backends), config.Timeout, config.Runs)

	for _, checklist := range config.Checklists {
		fmt.Printf("Benchmarking %s\n", checklist)
		for _, backend := range config.Backends {
			for _, command := range config.Commands {
				results = append(results, runBenchmarkSuite(config, checklist, backend, command))
			}
		}
	}

	return results
}

// runBenchmarkSuite runs one command repeatedly and summarizes cold and warm times.
func runBenchmarkSuite(config BenchmarkConfig, checklist, backend string, command []string) BenchmarkResult {
	name := fmt.Sprint(command)
	cold, warm := runBenchmark(config, checklist, backend, command)

	coldTime := "TIMEOUT"
	if cold > 0 {
		coldTime = fmt.Sprintf("%.3fs", cold)
	}
	warmTime := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  %-8s %-20s Cold: %s, Warm: %s\n", backend, name, coldTime, warmTime)

	return BenchmarkResult{
		Checklist: checklist,
		Command:   name,
		Backend:   backend,
		ColdTime:  coldTime,
		WarmTime:  warmTime,
	}
}

// runBenchmark executes a storecheck command numRuns times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, checklist, backend string, command []string) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, "--checklist", checklist, "--draft-backend", backend, "--output", "json")
	switch backend {
	case "file":
		args = append(args, "--draft-db-connect", filepath.Join(config.WorkDir, "drafts.json"))
	case "sqlite":
		args = append(args, "--draft-db-connect", filepath.Join(config.WorkDir, "drafts.db"))
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("storecheck", args...)
		cmd.Env = append(os.Environ(), "HOME="+config.WorkDir)

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
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("storecheck_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"checklist", "cmd", "backend", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Checklist, r.Command, r.Backend, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the warm averages grouped by backend.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range []string{"none", "file", "sqlite"} {
		fmt.Printf("%s backend:\n", backend)
		for _, r := range results {
			if r.Backend == backend {
				fmt.Printf("  %-16s %-20s Cold: %s, Warm: %s\n", r.Checklist, r.Command, r.ColdTime, r.WarmTime)
			}
		}
	}
}
