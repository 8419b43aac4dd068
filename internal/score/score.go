// internal/score/score.go

// Package score folds per-service statistics into a single comparable value
// and determines a winner. The weights and anchor points are fixed policy:
// changing them silently would make scores from different builds
// incomparable.
package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwiater/faceoff/internal/stats"
)

const (
	latencyWeight     = 0.5
	reliabilityWeight = 0.3
	throughputWeight  = 0.2

	// Latency sub-score anchors: 1.0 at <=50ms mean TTFT, 0.0 at >=2000ms.
	latencyCeilingMs = 2000.0
	latencySpanMs    = 1950.0

	// Throughput sub-score saturates at this rate.
	throughputAnchorTPS = 50.0

	// Display thresholds for the reasoning string.
	fastTTFTMs          = 200.0
	highReliabilityPct  = 95.0
	strongThroughputTPS = 30.0
)

// ComparisonResult is a read-only scoring snapshot for one service.
type ComparisonResult struct {
	ServiceID         string           `json:"serviceId"`
	Statistics        stats.Statistics `json:"statistics"`
	SuccessRate       float64          `json:"successRate"`
	TokensPerSecond   float64          `json:"tokensPerSecond"`
	PerformanceRating float64          `json:"performanceRating"`
	ReliabilityRating float64          `json:"reliabilityRating"`
	ThroughputRating  float64          `json:"throughputRating"`
	OverallScore      float64          `json:"overallScore"`
}

// Overall combines mean TTFT, success rate, and generation throughput into
// the bounded [0,1] score.
func Overall(meanTTFTMs, successRate, tokensPerSecond float64) float64 {
	return latencyWeight*PerformanceRating(meanTTFTMs) +
		reliabilityWeight*ReliabilityRating(successRate) +
		throughputWeight*ThroughputRating(tokensPerSecond)
}

// PerformanceRating maps mean TTFT to [0,1]: 1.0 at or below 50ms, 0.0 at
// or above 2000ms.
func PerformanceRating(meanTTFTMs float64) float64 {
	return clamp01((latencyCeilingMs - meanTTFTMs) / latencySpanMs)
}

// ReliabilityRating maps a percentage success rate to [0,1].
func ReliabilityRating(successRate float64) float64 {
	return clamp01(successRate / 100)
}

// ThroughputRating maps tokens per second to [0,1], saturating at 50.
func ThroughputRating(tokensPerSecond float64) float64 {
	return clamp01(tokensPerSecond / throughputAnchorTPS)
}

// Compare builds a ComparisonResult from one service's statistics.
func Compare(serviceID string, statistics stats.Statistics, successRate, tokensPerSecond float64) ComparisonResult {
	return ComparisonResult{
		ServiceID:         serviceID,
		Statistics:        statistics,
		SuccessRate:       successRate,
		TokensPerSecond:   tokensPerSecond,
		PerformanceRating: PerformanceRating(statistics.Mean),
		ReliabilityRating: ReliabilityRating(successRate),
		ThroughputRating:  ThroughputRating(tokensPerSecond),
		OverallScore:      Overall(statistics.Mean, successRate, tokensPerSecond),
	}
}

// CompareServices scores every accumulated service. totalRuns is the number
// of whole-benchmark executions attempted per service.
func CompareServices(accumulators map[string]*stats.MultiRun, totalRuns int, targetMs float64) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(accumulators))
	for serviceID, m := range accumulators {
		statistics := m.TTFTStatistics(targetMs)
		successRate := m.GetSuccessRate(totalRuns)
		results = append(results, Compare(serviceID, statistics, successRate, m.TokensPerSecond()))
	}
	// Stable output order regardless of map iteration.
	sort.Slice(results, func(i, j int) bool { return results[i].ServiceID < results[j].ServiceID })
	return results
}

// DetermineWinner picks the highest overall score among services with at
// least one successful sample. Ties break to the lexicographically smallest
// service name so repeated runs agree. Returns ("", reason) when no service
// qualifies.
func DetermineWinner(results []ComparisonResult) (string, string) {
	var winner *ComparisonResult
	for i := range results {
		r := &results[i]
		if r.Statistics.Count == 0 {
			continue
		}
		if winner == nil ||
			r.OverallScore > winner.OverallScore ||
			(r.OverallScore == winner.OverallScore && r.ServiceID < winner.ServiceID) {
			winner = r
		}
	}
	if winner == nil {
		return "", "no service produced a successful sample"
	}
	return winner.ServiceID, Reasoning(*winner)
}

// Reasoning explains a winning score in terms of its strongest sub-scores.
func Reasoning(r ComparisonResult) string {
	var reasons []string
	if r.Statistics.Mean < fastTTFTMs && r.Statistics.Count > 0 {
		reasons = append(reasons, fmt.Sprintf("fast first-token latency (mean %.0fms)", r.Statistics.Mean))
	}
	if r.SuccessRate > highReliabilityPct {
		reasons = append(reasons, fmt.Sprintf("high reliability (%.1f%% success)", r.SuccessRate))
	}
	if r.TokensPerSecond > strongThroughputTPS {
		reasons = append(reasons, fmt.Sprintf("strong throughput (%.1f tokens/sec)", r.TokensPerSecond))
	}
	if len(reasons) == 0 {
		return fmt.Sprintf("highest overall score (%.3f)", r.OverallScore)
	}
	return strings.Join(reasons, "; ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
