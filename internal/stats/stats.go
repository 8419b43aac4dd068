// internal/stats/stats.go

// Package stats turns latency sample sequences into summary statistics.
// It is the single home for quantile, mean, and standard-deviation math;
// every benchmark path (single-run TTFT, load runs, multi-run comparison)
// goes through Compute rather than carrying its own copy.
package stats

import (
	"math"
	"sort"
)

// Percentile fallback thresholds. These are fixed policy: below the
// threshold the percentile reports the sample maximum instead of the
// nearest-rank value. Note the step this produces at moderate sample sizes
// (n=50 still reports max for p99).
const (
	p95MinSamples = 20
	p99MinSamples = 100
)

// Statistics is an immutable summary of one latency sample set. All latency
// fields are milliseconds and cover successful samples only; SuccessRate
// counts failures in its denominator.
type Statistics struct {
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	P95            float64 `json:"p95"`
	P99            float64 `json:"p99"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	StdDev         float64 `json:"stdDev"`
	SuccessRate    float64 `json:"successRate"`
	TargetAchieved bool    `json:"targetAchieved"`
	TargetMs       float64 `json:"targetMs"`
}

// Compute summarizes the given successful-sample latencies. total is the
// full attempt count including failures; targetMs is the latency target the
// mean is checked against (strict inequality). Empty input yields the zero
// Statistics value, never an error.
func Compute(latencies []float64, total int, targetMs float64) Statistics {
	s := Statistics{TargetMs: targetMs}
	s.SuccessRate = SuccessRate(len(latencies), total)
	if len(latencies) == 0 {
		return s
	}

	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	s.Count = len(sorted)
	s.Mean = Mean(sorted)
	s.Median = nearestRank(sorted, 0.50)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.StdDev = StdDev(sorted, s.Mean)

	if len(sorted) < p95MinSamples {
		s.P95 = s.Max
	} else {
		s.P95 = nearestRank(sorted, 0.95)
	}
	if len(sorted) < p99MinSamples {
		s.P99 = s.Max
	} else {
		s.P99 = nearestRank(sorted, 0.99)
	}

	s.TargetAchieved = s.Mean < targetMs
	return s
}

// SuccessRate returns successful/total as a percentage. A zero total yields
// 0, never NaN.
func SuccessRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two values are present.
func StdDev(values []float64, meanVal float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - meanVal
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// nearestRank selects the sample at index floor(p*n), clamped to n-1.
// No interpolation: reproducibility of exact sample values matters more here
// than estimator quality.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(math.Floor(p * float64(len(sorted))))
	if index > len(sorted)-1 {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
