// internal/services/simulated/endpoint.go
// Package simulated provides a deterministic in-process services.Endpoint.
// It reproduces the timing shape of a real backend (first-token latency,
// per-token pacing, occasional failures) from a seeded RNG, so benchmark
// runs against it are repeatable.
package simulated

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/faceoff/internal/appconfig"
	"github.com/mwiater/faceoff/internal/services"
)

const (
	defaultFirstTokenMs = 120.0
	defaultPerTokenMs   = 15.0
	defaultTokens       = 48
)

// ErrSimulatedFailure is returned when the endpoint's failure rate fires.
var ErrSimulatedFailure = errors.New("simulated: injected request failure")

// Endpoint implements services.Endpoint without any network traffic.
type Endpoint struct {
	name        string
	firstToken  time.Duration
	perToken    time.Duration
	tokens      int
	jitter      time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New constructs a simulated endpoint for the given service entry.
func New(svc appconfig.Service) *Endpoint {
	params := appconfig.SimulatedParams{}
	if svc.Simulated != nil {
		params = *svc.Simulated
	}
	if params.FirstTokenMs <= 0 {
		params.FirstTokenMs = defaultFirstTokenMs
	}
	if params.PerTokenMs <= 0 {
		params.PerTokenMs = defaultPerTokenMs
	}
	if params.Tokens <= 0 {
		params.Tokens = defaultTokens
	}
	seed := params.Seed
	if seed == 0 {
		// A stable seed derived from the name keeps unseeded configs
		// repeatable across runs.
		for _, r := range svc.Name {
			seed = seed*31 + int64(r)
		}
		if seed == 0 {
			seed = 1
		}
	}

	return &Endpoint{
		name:        svc.Name,
		firstToken:  time.Duration(params.FirstTokenMs * float64(time.Millisecond)),
		perToken:    time.Duration(params.PerTokenMs * float64(time.Millisecond)),
		tokens:      params.Tokens,
		jitter:      time.Duration(params.JitterMs * float64(time.Millisecond)),
		failureRate: params.FailureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Name returns the configured service name.
func (e *Endpoint) Name() string { return e.name }

// BaseURL returns "" because the backend runs in-process.
func (e *Endpoint) BaseURL() string { return "" }

// StreamGenerate emits one word-like chunk per simulated token.
func (e *Endpoint) StreamGenerate(ctx context.Context, req services.Request, onChunk services.ChunkFunc) (services.Result, error) {
	fail, firstDelay, tokenDelays := e.plan()
	if fail {
		return services.Result{}, ErrSimulatedFailure
	}

	if err := sleepCtx(ctx, firstDelay); err != nil {
		return services.Result{}, err
	}

	var text strings.Builder
	for i, delay := range tokenDelays {
		chunk := fmt.Sprintf("tok%d ", i)
		text.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return services.Result{}, err
			}
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return services.Result{}, err
		}
	}

	return services.Result{
		Text:       strings.TrimSpace(text.String()),
		TokenCount: len(tokenDelays),
	}, nil
}

// Generate waits out the full generation time and returns the whole response.
func (e *Endpoint) Generate(ctx context.Context, req services.Request) (services.Result, error) {
	fail, firstDelay, tokenDelays := e.plan()
	if fail {
		return services.Result{}, ErrSimulatedFailure
	}

	total := firstDelay
	for _, d := range tokenDelays {
		total += d
	}
	if err := sleepCtx(ctx, total); err != nil {
		return services.Result{}, err
	}

	var text strings.Builder
	for i := range tokenDelays {
		fmt.Fprintf(&text, "tok%d ", i)
	}
	return services.Result{
		Text:       strings.TrimSpace(text.String()),
		TokenCount: len(tokenDelays),
	}, nil
}

// plan rolls the RNG once per request under the lock so concurrent sessions
// never interleave draws mid-request.
func (e *Endpoint) plan() (fail bool, firstDelay time.Duration, tokenDelays []time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failureRate > 0 && e.rng.Float64() < e.failureRate {
		return true, 0, nil
	}

	firstDelay = e.firstToken + e.jitterSample()
	tokenDelays = make([]time.Duration, e.tokens)
	for i := range tokenDelays {
		tokenDelays[i] = e.perToken + e.jitterSample()/4
	}
	return false, firstDelay, tokenDelays
}

func (e *Endpoint) jitterSample() time.Duration {
	if e.jitter <= 0 {
		return 0
	}
	return time.Duration(e.rng.Int63n(int64(e.jitter)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
