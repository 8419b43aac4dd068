// internal/report/report.go

// Package report writes benchmark results to disk and renders the terminal
// summary. It is a consumer of the benchmark core's snapshots; nothing here
// feeds back into measurement.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/mwiater/faceoff/internal/benchmark"
	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/score"
	"github.com/mwiater/faceoff/internal/util"
)

const resultsDir = "faceoffData/benchmarks"

// WriteTTFTResult writes one TTFT benchmark result as indented JSON and
// returns the file path.
func WriteTTFTResult(result *benchmark.TTFTResult, iterations int) (string, error) {
	var serviceNames []string
	for _, report := range result.Services {
		serviceNames = append(serviceNames, report.ServiceID)
	}
	fileName := fmt.Sprintf("ttft-%s-%d.json", Slugify(strings.Join(serviceNames, "-")), iterations)
	return writeJSON(fileName, result)
}

// WriteLoadResult writes one load run result as indented JSON and returns
// the file path.
func WriteLoadResult(result *benchmark.LoadResult) (string, error) {
	fileName := fmt.Sprintf("load-%s-%d.json", Slugify(result.ServiceID), result.Total)
	return writeJSON(fileName, result)
}

// WriteComparison writes multi-run comparison results as indented JSON and
// returns the file path.
func WriteComparison(results []score.ComparisonResult, runs int) (string, error) {
	var serviceNames []string
	for _, r := range results {
		serviceNames = append(serviceNames, r.ServiceID)
	}
	fileName := fmt.Sprintf("compare-%s-%d.json", Slugify(strings.Join(serviceNames, "-")), runs)
	return writeJSON(fileName, results)
}

func writeJSON(fileName string, v any) (string, error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	path := filepath.Join(resultsDir, fileName)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding results: %w", err)
	}
	if err := util.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("error writing result file: %w", err)
	}

	logging.LogEvent("[REPORT] results written to %s", path)
	return path, nil
}

// PrintTTFTSummary renders the per-service table and the winner line.
func PrintTTFTSummary(result *benchmark.TTFTResult) {
	fmt.Println(renderTTFTTable(result))

	if result.Winner == "" {
		color.Red("No winner: %s", result.Reasoning)
		return
	}
	color.Green("Winner: %s — %s", result.Winner, result.Reasoning)
}

// PrintLoadSummary renders the outcome of one load run.
func PrintLoadSummary(result *benchmark.LoadResult) {
	fmt.Printf("%s: %d requests (%d ok, %d failed), %.2f req/s\n",
		result.ServiceID, result.Total, result.Succeeded, result.Failed, result.RequestsPerSecond)
	s := result.Statistics
	fmt.Printf("  latency ms — mean %.1f  median %.1f  p95 %.1f  p99 %.1f  min %.1f  max %.1f\n",
		s.Mean, s.Median, s.P95, s.P99, s.Min, s.Max)
	if result.TargetAchieved {
		color.Green("  p95 target met (%.1fms < %.0fms)", s.P95, s.TargetMs)
	} else if s.TargetMs > 0 {
		color.Red("  p95 target missed (%.1fms >= %.0fms)", s.P95, s.TargetMs)
	}
}

// PrintComparison renders multi-run comparison results and the winner.
func PrintComparison(results []score.ComparisonResult, winner, reasoning string) {
	fmt.Println(renderComparisonTable(results))

	if winner == "" {
		color.Red("No winner: %s", reasoning)
		return
	}
	color.Green("Winner: %s — %s", winner, reasoning)
}

// Slugify converts a string into a "slug" format,
// including replacing colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	re := regexp.MustCompile(`[^a-z0-9_]+`)
	s = re.ReplaceAllString(s, "-")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}
