// internal/report/table.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/faceoff/internal/benchmark"
	"github.com/mwiater/faceoff/internal/score"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func renderTTFTTable(result *benchmark.TTFTResult) string {
	rows := [][]string{{"SERVICE", "N", "MEAN", "MEDIAN", "P95", "P99", "SUCCESS", "TOK/S", "TARGET"}}
	for _, report := range result.Services {
		s := report.Statistics
		target := "-"
		if s.TargetMs > 0 {
			if s.TargetAchieved {
				target = "met"
			} else {
				target = "missed"
			}
		}
		rows = append(rows, []string{
			report.ServiceID,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1fms", s.Mean),
			fmt.Sprintf("%.1fms", s.Median),
			fmt.Sprintf("%.1fms", s.P95),
			fmt.Sprintf("%.1fms", s.P99),
			fmt.Sprintf("%.1f%%", s.SuccessRate),
			fmt.Sprintf("%.1f", report.TokensPerSecond),
			target,
		})
	}
	return renderRows(rows)
}

func renderComparisonTable(results []score.ComparisonResult) string {
	ranked := make([]score.ComparisonResult, len(results))
	copy(ranked, results)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		return ranked[i].ServiceID < ranked[j].ServiceID
	})

	rows := [][]string{{"RANK", "SERVICE", "SCORE", "LATENCY", "RELIABILITY", "THROUGHPUT", "MEAN TTFT", "SUCCESS"}}
	for i, r := range ranked {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.ServiceID,
			fmt.Sprintf("%.3f", r.OverallScore),
			fmt.Sprintf("%.2f", r.PerformanceRating),
			fmt.Sprintf("%.2f", r.ReliabilityRating),
			fmt.Sprintf("%.2f", r.ThroughputRating),
			fmt.Sprintf("%.1fms", r.Statistics.Mean),
			fmt.Sprintf("%.1f%%", r.SuccessRate),
		})
	}
	return renderRows(rows)
}

// renderRows lays out a simple fixed-width table with a styled header row.
func renderRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			if len(cell) > widths[c] {
				widths[c] = len(cell)
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			padded := fmt.Sprintf("%-*s", widths[c], cell)
			if r == 0 {
				cells[c] = headerStyle.Render(padded)
			} else if cell == "-" {
				cells[c] = dimStyle.Render(padded)
			} else {
				cells[c] = padded
			}
		}
		b.WriteString(cellStyle.Render(strings.Join(cells, "  ")))
		if r < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
