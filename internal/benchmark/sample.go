// internal/benchmark/sample.go

// Package benchmark issues timed requests against service endpoints and
// collects the raw samples the statistics and scoring layers consume.
package benchmark

import "github.com/mwiater/faceoff/internal/stats"

// Sample is one timed measurement against one service. Values are set once
// at measurement time and never mutated; worker goroutines hand Samples back
// to the orchestrator instead of writing shared collections.
type Sample struct {
	ServiceID       string  `json:"serviceId"`
	Success         bool    `json:"success"`
	TTFTMs          float64 `json:"ttftMs"`
	TotalTimeMs     float64 `json:"totalTimeMs"`
	TokensGenerated int     `json:"tokensGenerated"`
	Error           string  `json:"error,omitempty"`
	RunIndex        int     `json:"runIndex"`
}

// SampleSet is the ordered sample sequence for one service within one
// benchmark invocation. Samples are appended exactly once, in completion
// order.
type SampleSet struct {
	serviceID string
	samples   []Sample
}

// NewSampleSet returns an empty set for the given service.
func NewSampleSet(serviceID string) *SampleSet {
	return &SampleSet{serviceID: serviceID}
}

// ServiceID returns the owning service's name.
func (s *SampleSet) ServiceID() string { return s.serviceID }

// Append records one sample.
func (s *SampleSet) Append(sample Sample) {
	s.samples = append(s.samples, sample)
}

// Len returns the number of recorded samples.
func (s *SampleSet) Len() int { return len(s.samples) }

// Samples returns the recorded samples in completion order.
func (s *SampleSet) Samples() []Sample { return s.samples }

// SuccessCount returns how many samples succeeded.
func (s *SampleSet) SuccessCount() int {
	n := 0
	for _, sample := range s.samples {
		if sample.Success {
			n++
		}
	}
	return n
}

// TTFTs returns the TTFT latencies of successful samples, in order.
func (s *SampleSet) TTFTs() []float64 {
	out := make([]float64, 0, len(s.samples))
	for _, sample := range s.samples {
		if sample.Success {
			out = append(out, sample.TTFTMs)
		}
	}
	return out
}

// TotalTimes returns the total-time latencies of successful samples, in order.
func (s *SampleSet) TotalTimes() []float64 {
	out := make([]float64, 0, len(s.samples))
	for _, sample := range s.samples {
		if sample.Success {
			out = append(out, sample.TotalTimeMs)
		}
	}
	return out
}

// TokensPerSecond returns the aggregate generation rate across successful
// samples: total tokens over total generation time.
func (s *SampleSet) TokensPerSecond() float64 {
	var tokens int
	var totalMs float64
	for _, sample := range s.samples {
		if sample.Success {
			tokens += sample.TokensGenerated
			totalMs += sample.TotalTimeMs
		}
	}
	if totalMs <= 0 {
		return 0
	}
	return float64(tokens) / (totalMs / 1000)
}

// TTFTStatistics summarizes the set's TTFT latencies against the target.
func (s *SampleSet) TTFTStatistics(targetMs float64) stats.Statistics {
	return stats.Compute(s.TTFTs(), len(s.samples), targetMs)
}

// TotalTimeStatistics summarizes the set's total-time latencies against the
// target.
func (s *SampleSet) TotalTimeStatistics(targetMs float64) stats.Statistics {
	return stats.Compute(s.TotalTimes(), len(s.samples), targetMs)
}
