// internal/benchmark/load.go
package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mwiater/faceoff/internal/services"
	"github.com/mwiater/faceoff/internal/stats"
)

// LoadOptions configures one sustained load run against one endpoint.
type LoadOptions struct {
	Duration       time.Duration
	Concurrency    int
	Users          int
	ThinkTimeMin   time.Duration
	ThinkTimeMax   time.Duration
	RequestTimeout time.Duration
	Prompt         string
	TargetP95Ms    float64
	// Seed feeds the per-user think-time RNGs; zero picks the clock.
	Seed int64
}

// LoadResult is the outcome of one load run.
type LoadResult struct {
	ServiceID         string           `json:"serviceId"`
	Total             int              `json:"total"`
	Succeeded         int              `json:"succeeded"`
	Failed            int              `json:"failed"`
	Statistics        stats.Statistics `json:"statistics"`
	RequestsPerSecond float64          `json:"requestsPerSecond"`
	TargetAchieved    bool             `json:"targetAchieved"`
	Samples           []Sample         `json:"samples"`
}

// RunLoad drives virtual-user sessions against the endpoint until the
// duration window closes. Each session blocks for one of Concurrency slots,
// issues one full request, reports its Sample, releases the slot, and
// sleeps a random think time before its next iteration. Sessions in flight
// when the window closes are awaited, never dropped. Per-session failures
// become failed Samples and never disturb other sessions.
func RunLoad(ctx context.Context, endpoint services.Endpoint, opts LoadOptions) (*LoadResult, error) {
	if endpoint == nil {
		return nil, fmt.Errorf("benchmark: no endpoint supplied for load run")
	}
	if opts.Concurrency < 1 {
		return nil, fmt.Errorf("benchmark: concurrency must be at least 1")
	}
	users := opts.Users
	if users < 1 {
		users = opts.Concurrency
	}
	if opts.ThinkTimeMax < opts.ThinkTimeMin {
		opts.ThinkTimeMax = opts.ThinkTimeMin
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gate := semaphore.NewWeighted(int64(opts.Concurrency))
	deadline := time.Now().Add(opts.Duration)

	// Workers hand Samples back over this channel; only the collector below
	// touches the sample set, so no lock is needed on it.
	sampleCh := make(chan Sample, users)
	set := NewSampleSet(endpoint.Name())
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for sample := range sampleCh {
			set.Append(sample)
		}
	}()

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(userIndex)))
			for time.Now().Before(deadline) && ctx.Err() == nil {
				sample, ok := runSession(ctx, endpoint, gate, opts)
				if !ok {
					return
				}
				sampleCh <- sample
				if !sleepThink(ctx, rng, opts.ThinkTimeMin, opts.ThinkTimeMax) {
					return
				}
			}
		}(u)
	}

	wg.Wait()
	close(sampleCh)
	<-collectorDone

	result := &LoadResult{
		ServiceID:  endpoint.Name(),
		Total:      set.Len(),
		Succeeded:  set.SuccessCount(),
		Failed:     set.Len() - set.SuccessCount(),
		Statistics: set.TotalTimeStatistics(opts.TargetP95Ms),
		Samples:    set.Samples(),
	}
	if opts.Duration > 0 {
		result.RequestsPerSecond = float64(result.Total) / opts.Duration.Seconds()
	}
	result.TargetAchieved = opts.TargetP95Ms > 0 && result.Statistics.P95 < opts.TargetP95Ms && result.Succeeded > 0
	return result, nil
}

// runSession executes one gated request. The slot is released on every exit
// path. ok is false only when the gate acquisition itself was cancelled,
// which means no request was dispatched.
func runSession(ctx context.Context, endpoint services.Endpoint, gate *semaphore.Weighted, opts LoadOptions) (Sample, bool) {
	if err := gate.Acquire(ctx, 1); err != nil {
		return Sample{}, false
	}
	defer gate.Release(1)

	reqCtx := ctx
	if opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}

	sample := Sample{ServiceID: endpoint.Name()}
	start := time.Now()
	result, err := endpoint.Generate(reqCtx, services.Request{Prompt: opts.Prompt})
	sample.TotalTimeMs = float64(time.Since(start)) / float64(time.Millisecond)

	if err != nil {
		sample.Error = err.Error()
		return sample, true
	}
	if result.TokenCount == 0 {
		sample.Error = "no tokens received"
		return sample, true
	}

	sample.Success = true
	sample.TokensGenerated = result.TokenCount
	return sample, true
}

// sleepThink pauses for a random duration in [min,max]. Returns false when
// the context was cancelled during the pause.
func sleepThink(ctx context.Context, rng *rand.Rand, min, max time.Duration) bool {
	span := max - min
	pause := min
	if span > 0 {
		pause += time.Duration(rng.Int63n(int64(span) + 1))
	}
	if pause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
