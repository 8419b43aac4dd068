// internal/benchmark/runner.go
package benchmark

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/score"
	"github.com/mwiater/faceoff/internal/services"
	"github.com/mwiater/faceoff/internal/stats"
)

// ErrNoServices is returned when a benchmark is invoked with an empty
// service set. An empty invocation is a caller error, distinct from a run
// whose samples all failed.
var ErrNoServices = errors.New("benchmark: no services supplied")

// Progress is one progress event emitted while a benchmark runs.
type Progress struct {
	ServiceID string
	Phase     string
	Completed int
	Total     int
}

// TTFTOptions configures one TTFT benchmark invocation.
type TTFTOptions struct {
	Iterations     int
	WarmupCount    int
	MinChunks      int
	TargetMs       float64
	RequestTimeout time.Duration
	Prompt         string
	// Simultaneous races all services concurrently instead of measuring
	// them one after another in isolation.
	Simultaneous bool
	// OnProgress, when set, receives progress events. It may be called from
	// multiple goroutines in simultaneous mode.
	OnProgress func(Progress)
}

// ServiceReport is one service's outcome within a TTFT benchmark.
type ServiceReport struct {
	ServiceID       string           `json:"serviceId"`
	Statistics      stats.Statistics `json:"statistics"`
	TokensPerSecond float64          `json:"tokensPerSecond"`
	Samples         []Sample         `json:"samples"`
}

// TTFTResult is the outcome of one whole TTFT benchmark invocation.
type TTFTResult struct {
	Services  []ServiceReport `json:"services"`
	Winner    string          `json:"winner"`
	Reasoning string          `json:"reasoning"`
}

// Report returns the report for the named service, if present.
func (r *TTFTResult) Report(serviceID string) (ServiceReport, bool) {
	for _, report := range r.Services {
		if report.ServiceID == serviceID {
			return report, true
		}
	}
	return ServiceReport{}, false
}

// RunTTFT measures time-to-first-token for every endpoint and determines a
// winner. Endpoints are measured sequentially by default, or raced
// concurrently when opts.Simultaneous is set. One failing service never
// aborts measurement of the others.
func RunTTFT(ctx context.Context, endpoints []services.Endpoint, opts TTFTOptions) (*TTFTResult, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoServices
	}
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}

	sets := make([]*SampleSet, len(endpoints))
	if opts.Simultaneous {
		var wg sync.WaitGroup
		for i, endpoint := range endpoints {
			wg.Add(1)
			go func(i int, endpoint services.Endpoint) {
				defer wg.Done()
				sets[i] = measureService(ctx, endpoint, opts)
			}(i, endpoint)
		}
		wg.Wait()
	} else {
		for i, endpoint := range endpoints {
			sets[i] = measureService(ctx, endpoint, opts)
		}
	}

	result := &TTFTResult{Services: make([]ServiceReport, 0, len(sets))}
	comparisons := make([]score.ComparisonResult, 0, len(sets))
	for _, set := range sets {
		statistics := set.TTFTStatistics(opts.TargetMs)
		tps := set.TokensPerSecond()
		result.Services = append(result.Services, ServiceReport{
			ServiceID:       set.ServiceID(),
			Statistics:      statistics,
			TokensPerSecond: tps,
			Samples:         set.Samples(),
		})
		comparisons = append(comparisons, score.Compare(set.ServiceID(), statistics, statistics.SuccessRate, tps))
	}

	result.Winner, result.Reasoning = score.DetermineWinner(comparisons)
	return result, nil
}

// measureService runs warmup and measured iterations for one endpoint. The
// returned sample set is owned by the caller; nothing is shared with other
// services.
func measureService(ctx context.Context, endpoint services.Endpoint, opts TTFTOptions) *SampleSet {
	probe := NewProbe(endpoint, opts.MinChunks, opts.RequestTimeout)
	set := NewSampleSet(endpoint.Name())

	for w := 0; w < opts.WarmupCount; w++ {
		emit(opts.OnProgress, Progress{ServiceID: endpoint.Name(), Phase: "warmup", Completed: w, Total: opts.WarmupCount})
		warm := probe.Measure(ctx, opts.Prompt, -1)
		if !warm.Success {
			logging.LogEvent("[WARMUP] service %s warmup request %d failed: %s", endpoint.Name(), w+1, warm.Error)
		}
	}

	for i := 0; i < opts.Iterations; i++ {
		if ctx.Err() != nil {
			set.Append(Sample{ServiceID: endpoint.Name(), Error: ctx.Err().Error(), RunIndex: i})
			continue
		}
		sample := probe.Measure(ctx, opts.Prompt, i)
		set.Append(sample)
		emit(opts.OnProgress, Progress{ServiceID: endpoint.Name(), Phase: "measure", Completed: i + 1, Total: opts.Iterations})
		if !sample.Success {
			logging.LogEvent("[TTFT] service %s iteration %d failed: %s", endpoint.Name(), i+1, sample.Error)
		}
	}

	return set
}

// Accumulate folds one TTFT result into per-service multi-run accumulators.
// Runs where a service produced no successful sample count as whole-run
// errors for that service.
func Accumulate(accumulators map[string]*stats.MultiRun, result *TTFTResult) {
	for _, report := range result.Services {
		acc, ok := accumulators[report.ServiceID]
		if !ok {
			acc = stats.NewMultiRun()
			accumulators[report.ServiceID] = acc
		}
		if report.Statistics.Count == 0 {
			acc.RecordError()
			continue
		}

		var tokens int
		var totalMs float64
		for _, sample := range report.Samples {
			if sample.Success {
				tokens += sample.TokensGenerated
				totalMs += sample.TotalTimeMs
			}
		}
		meanTotal := totalMs / float64(report.Statistics.Count)
		meanTokens := tokens / report.Statistics.Count
		acc.AddRun(report.Statistics.Mean, meanTotal, meanTokens)
	}
}

func emit(fn func(Progress), p Progress) {
	if fn != nil {
		fn(p)
	}
}
