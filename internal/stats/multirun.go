// internal/stats/multirun.go
package stats

// MultiRun accumulates per-service measurements across repeated
// whole-benchmark executions within one session. Histories are append-only;
// nothing is windowed, decayed, or trimmed. Callers wanting recency
// weighting must resample outside this type.
type MultiRun struct {
	ttftHistory      []float64
	totalTimeHistory []float64
	tokenHistory     []int
	errorCount       int
}

// NewMultiRun returns an empty accumulator.
func NewMultiRun() *MultiRun {
	return &MultiRun{}
}

// AddRun appends one successful run's measurements.
func (m *MultiRun) AddRun(ttftMs, totalMs float64, tokens int) {
	m.ttftHistory = append(m.ttftHistory, ttftMs)
	m.totalTimeHistory = append(m.totalTimeHistory, totalMs)
	m.tokenHistory = append(m.tokenHistory, tokens)
}

// RecordError counts one whole-run failure.
func (m *MultiRun) RecordError() {
	m.errorCount++
}

// RunCount returns the number of successful runs recorded.
func (m *MultiRun) RunCount() int {
	return len(m.ttftHistory)
}

// ErrorCount returns the number of whole-run failures recorded.
func (m *MultiRun) ErrorCount() int {
	return m.errorCount
}

// GetSuccessRate returns recorded runs over totalRuns as a percentage.
func (m *MultiRun) GetSuccessRate(totalRuns int) float64 {
	return SuccessRate(len(m.ttftHistory), totalRuns)
}

// TTFTStatistics summarizes the accumulated TTFT history.
func (m *MultiRun) TTFTStatistics(targetMs float64) Statistics {
	total := len(m.ttftHistory) + m.errorCount
	return Compute(m.ttftHistory, total, targetMs)
}

// TokensPerSecond returns the mean per-run generation rate over runs with a
// positive duration.
func (m *MultiRun) TokensPerSecond() float64 {
	var rates []float64
	for i, totalMs := range m.totalTimeHistory {
		if totalMs <= 0 {
			continue
		}
		rates = append(rates, float64(m.tokenHistory[i])/(totalMs/1000))
	}
	return Mean(rates)
}
