// internal/commands/benchmark_load.go
package faceoff

import (
	"fmt"

	"github.com/mwiater/faceoff/internal/benchmark"
	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/report"
	"github.com/mwiater/faceoff/internal/servicefactory"
	"github.com/mwiater/faceoff/internal/services"
	"github.com/spf13/cobra"
)

var benchmarkLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run sustained virtual-user load against a single configured service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		serviceName, _ := cmd.Flags().GetString("service")
		var endpoint services.Endpoint
		for _, svc := range cfg.Services {
			if svc.Name == serviceName {
				built, err := servicefactory.NewEndpoint(cfg, svc)
				if err != nil {
					return err
				}
				endpoint = built
				break
			}
		}
		if endpoint == nil {
			return fmt.Errorf("service %q is not configured", serviceName)
		}

		thinkMin, thinkMax := cfg.Load.ThinkTimeRange()
		opts := benchmark.LoadOptions{
			Duration:       cfg.Load.Duration(),
			Concurrency:    cfg.Load.ConcurrencyCap(),
			Users:          cfg.Load.UserCount(),
			ThinkTimeMin:   thinkMin,
			ThinkTimeMax:   thinkMax,
			RequestTimeout: cfg.RequestTimeout(),
			Prompt:         cfg.BenchmarkPrompt(),
			TargetP95Ms:    cfg.Load.TargetP95Ms,
		}

		logging.LogEvent("[LOAD] driving %d users (cap %d) against %s for %s",
			opts.Users, opts.Concurrency, serviceName, opts.Duration)
		result, err := benchmark.RunLoad(cmd.Context(), endpoint, opts)
		if err != nil {
			return err
		}

		if path, err := report.WriteLoadResult(result); err != nil {
			logging.LogEvent("[LOAD] failed to write result: %v", err)
		} else {
			logging.LogEvent("[LOAD] wrote %s", path)
		}
		report.PrintLoadSummary(result)
		return nil
	},
}

func init() {
	benchmarkCmd.AddCommand(benchmarkLoadCmd)

	benchmarkLoadCmd.Flags().StringP("service", "s", "", "name of the configured service to load test")
	_ = benchmarkLoadCmd.MarkFlagRequired("service")
}
