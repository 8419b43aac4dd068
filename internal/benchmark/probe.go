// internal/benchmark/probe.go
package benchmark

import (
	"context"
	"errors"
	"time"

	"github.com/mwiater/faceoff/internal/services"
)

// errEnoughChunks stops a probe's stream once the chunk cutoff is reached.
var errEnoughChunks = errors.New("benchmark: chunk cutoff reached")

// Probe issues one timed streaming request against one endpoint. A Probe
// holds no per-request state, so one value can serve sequential and
// simultaneous invocations alike.
type Probe struct {
	endpoint  services.Endpoint
	minChunks int
	timeout   time.Duration
}

// NewProbe constructs a probe for the given endpoint. minChunks is how many
// stream chunks to consume before stopping; timeout bounds the whole call.
func NewProbe(endpoint services.Endpoint, minChunks int, timeout time.Duration) *Probe {
	if minChunks < 1 {
		minChunks = 1
	}
	return &Probe{endpoint: endpoint, minChunks: minChunks, timeout: timeout}
}

// Measure runs one timed streaming request and reports the outcome as a
// Sample. Failures, including timeouts and streams that close without
// producing a single chunk, become failed Samples; Measure never returns an
// error and never blocks past its deadline.
func (p *Probe) Measure(ctx context.Context, prompt string, runIndex int) Sample {
	sample := Sample{ServiceID: p.endpoint.Name(), RunIndex: runIndex}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	var firstChunk time.Time
	chunks := 0

	result, err := p.endpoint.StreamGenerate(probeCtx, services.Request{Prompt: prompt}, func(text string) error {
		if chunks == 0 {
			firstChunk = time.Now()
		}
		chunks++
		if chunks >= p.minChunks {
			return errEnoughChunks
		}
		return nil
	})
	elapsed := time.Since(start)

	if err != nil && !errors.Is(err, errEnoughChunks) {
		sample.Error = err.Error()
		return sample
	}
	if chunks == 0 {
		// A stream that closes cleanly without content is a broken
		// generation, not an instant one.
		sample.Error = "no tokens received"
		return sample
	}

	sample.Success = true
	sample.TTFTMs = float64(firstChunk.Sub(start)) / float64(time.Millisecond)
	sample.TotalTimeMs = float64(elapsed) / float64(time.Millisecond)
	sample.TokensGenerated = chunks
	if result.TokenCount > chunks {
		sample.TokensGenerated = result.TokenCount
	}
	return sample
}
