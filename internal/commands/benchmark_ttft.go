// internal/commands/benchmark_ttft.go
package faceoff

import (
	"context"
	"fmt"

	"github.com/mwiater/faceoff/internal/appconfig"
	"github.com/mwiater/faceoff/internal/benchmark"
	"github.com/mwiater/faceoff/internal/discovery"
	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/report"
	"github.com/mwiater/faceoff/internal/score"
	"github.com/mwiater/faceoff/internal/servicefactory"
	"github.com/mwiater/faceoff/internal/services"
	"github.com/mwiater/faceoff/internal/stats"
	"github.com/mwiater/faceoff/internal/tui"
	"github.com/spf13/cobra"
)

// ttftOutcome collects everything a multi-run TTFT benchmark produced so the
// command can print it after any progress view has shut down.
type ttftOutcome struct {
	results     []*benchmark.TTFTResult
	comparisons []score.ComparisonResult
	winner      string
	reasoning   string
}

var benchmarkTTFTCmd = &cobra.Command{
	Use:   "ttft",
	Short: "Measure time-to-first-token for every configured service and pick a winner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		ctx := cmd.Context()
		endpoints, err := healthyEndpoints(ctx, cfg)
		if err != nil {
			return err
		}

		opts := benchmark.TTFTOptions{
			Iterations:     cfg.IterationCount(),
			WarmupCount:    cfg.WarmupRequests(),
			MinChunks:      cfg.MinChunkCount(),
			TargetMs:       cfg.TTFTTarget(),
			RequestTimeout: cfg.RequestTimeout(),
			Prompt:         cfg.BenchmarkPrompt(),
			Simultaneous:   cfg.Simultaneous,
		}

		showProgress, _ := cmd.Flags().GetBool("progress")
		var outcome *ttftOutcome
		if showProgress && !cfg.Debug {
			events := make(chan benchmark.Progress, 64)
			// Non-blocking send so a closed or lagging view never stalls
			// the benchmark itself.
			opts.OnProgress = func(p benchmark.Progress) {
				select {
				case events <- p:
				default:
				}
			}

			var runErr error
			done := make(chan struct{})
			go func() {
				defer close(done)
				defer close(events)
				outcome, runErr = executeTTFT(ctx, cfg, endpoints, opts)
			}()
			if err := tui.Run("TTFT benchmark", events); err != nil {
				logging.LogEvent("[TTFT] progress view error: %v", err)
			}
			<-done
			if runErr != nil {
				return runErr
			}
		} else {
			outcome, err = executeTTFT(ctx, cfg, endpoints, opts)
			if err != nil {
				return err
			}
		}

		for _, result := range outcome.results {
			report.PrintTTFTSummary(result)
		}
		if len(outcome.comparisons) > 0 {
			report.PrintComparison(outcome.comparisons, outcome.winner, outcome.reasoning)
		}
		return nil
	},
}

// executeTTFT runs the benchmark cfg.RunCount() times, writes each run's
// result file, and folds runs into per-service accumulators when more than
// one run was requested.
func executeTTFT(ctx context.Context, cfg *appconfig.Config, endpoints []services.Endpoint, opts benchmark.TTFTOptions) (*ttftOutcome, error) {
	runs := cfg.RunCount()
	outcome := &ttftOutcome{}
	accumulators := make(map[string]*stats.MultiRun)

	for run := 0; run < runs; run++ {
		if runs > 1 {
			logging.LogEvent("[TTFT] starting run %d of %d", run+1, runs)
		}
		result, err := benchmark.RunTTFT(ctx, endpoints, opts)
		if err != nil {
			return nil, err
		}
		outcome.results = append(outcome.results, result)
		if path, err := report.WriteTTFTResult(result, opts.Iterations); err != nil {
			logging.LogEvent("[TTFT] failed to write result: %v", err)
		} else {
			logging.LogEvent("[TTFT] wrote %s", path)
		}
		benchmark.Accumulate(accumulators, result)
	}

	if runs > 1 {
		outcome.comparisons = score.CompareServices(accumulators, runs, opts.TargetMs)
		outcome.winner, outcome.reasoning = score.DetermineWinner(outcome.comparisons)
		if path, err := report.WriteComparison(outcome.comparisons, runs); err != nil {
			logging.LogEvent("[TTFT] failed to write comparison: %v", err)
		} else {
			logging.LogEvent("[TTFT] wrote %s", path)
		}
	}
	return outcome, nil
}

// healthyEndpoints probes every configured service and builds endpoints for
// the reachable ones only.
func healthyEndpoints(ctx context.Context, cfg *appconfig.Config) ([]services.Endpoint, error) {
	infos := discovery.Healthy(discovery.NewProber().Discover(ctx, cfg))
	if len(infos) == 0 {
		return nil, fmt.Errorf("no healthy services found")
	}

	reachable := make(map[string]bool, len(infos))
	for _, info := range infos {
		reachable[info.Name] = true
	}

	filtered := *cfg
	filtered.Services = nil
	for _, svc := range cfg.Services {
		if reachable[svc.Name] {
			filtered.Services = append(filtered.Services, svc)
		}
	}
	return servicefactory.Endpoints(&filtered)
}

func init() {
	benchmarkCmd.AddCommand(benchmarkTTFTCmd)

	benchmarkTTFTCmd.Flags().Bool("progress", false, "show a live progress view while measuring")
}
