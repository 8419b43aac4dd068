// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for a single service request.
	defaultRequestTimeout = 120 * time.Second
	// defaultIterations is the measured TTFT iteration count when the config omits it.
	defaultIterations = 10
	// defaultWarmupCount is the number of discarded warmup requests per service.
	defaultWarmupCount = 2
	// defaultMinChunks is how many stream chunks a TTFT probe consumes before stopping.
	defaultMinChunks = 3
	// defaultTargetTTFTMs is the TTFT target used for the target-achieved verdict.
	defaultTargetTTFTMs = 500.0
	// defaultPrompt is sent to every service when the config omits one.
	defaultPrompt = "Explain the difference between latency and throughput in two sentences."
)

// Config represents the top-level application configuration.
type Config struct {
	Services       []Service  `json:"services"`
	Prompt         string     `json:"prompt,omitempty"`
	Iterations     int        `json:"iterations,omitempty"`
	WarmupCount    int        `json:"warmupCount,omitempty"`
	MinChunks      int        `json:"minChunks,omitempty"`
	TargetTTFTMs   float64    `json:"targetTTFTMs,omitempty"`
	Runs           int        `json:"runs,omitempty"`
	Simultaneous   bool       `json:"simultaneous"`
	Load           LoadConfig `json:"load"`
	TimeoutSeconds int        `json:"timeout,omitempty"`
	LogFile        string     `json:"logFile,omitempty"`
	Debug          bool       `json:"debug"`
	ConfigPath     string     `json:"-"`
}

// Service describes one text-generation backend to benchmark.
type Service struct {
	Name      string           `json:"name"`
	URL       string           `json:"url,omitempty"`
	Kind      string           `json:"kind"`
	Model     string           `json:"model,omitempty"`
	Simulated *SimulatedParams `json:"simulated,omitempty"`
}

// SimulatedParams tunes the deterministic in-process backend.
type SimulatedParams struct {
	FirstTokenMs float64 `json:"firstTokenMs,omitempty"`
	PerTokenMs   float64 `json:"perTokenMs,omitempty"`
	Tokens       int     `json:"tokens,omitempty"`
	JitterMs     float64 `json:"jitterMs,omitempty"`
	FailureRate  float64 `json:"failureRate,omitempty"`
	Seed         int64   `json:"seed,omitempty"`
}

// LoadConfig holds the settings for a sustained load run.
type LoadConfig struct {
	DurationSeconds int     `json:"durationSeconds,omitempty"`
	Concurrency     int     `json:"concurrency,omitempty"`
	Users           int     `json:"users,omitempty"`
	ThinkTimeMinMs  int     `json:"thinkTimeMinMs,omitempty"`
	ThinkTimeMaxMs  int     `json:"thinkTimeMaxMs,omitempty"`
	TargetP95Ms     float64 `json:"targetP95Ms,omitempty"`
}

// RequestTimeout returns the timeout duration for service requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IterationCount returns the measured iteration count per service.
func (c Config) IterationCount() int {
	if c.Iterations <= 0 {
		return defaultIterations
	}
	return c.Iterations
}

// WarmupRequests returns how many warmup requests are issued per service.
func (c Config) WarmupRequests() int {
	if c.WarmupCount < 0 {
		return 0
	}
	if c.WarmupCount == 0 {
		return defaultWarmupCount
	}
	return c.WarmupCount
}

// MinChunkCount returns the stream cutoff for TTFT probes.
func (c Config) MinChunkCount() int {
	if c.MinChunks <= 0 {
		return defaultMinChunks
	}
	return c.MinChunks
}

// TTFTTarget returns the TTFT target in milliseconds.
func (c Config) TTFTTarget() float64 {
	if c.TargetTTFTMs <= 0 {
		return defaultTargetTTFTMs
	}
	return c.TargetTTFTMs
}

// BenchmarkPrompt returns the prompt sent to every service under test.
func (c Config) BenchmarkPrompt() string {
	if strings.TrimSpace(c.Prompt) == "" {
		return defaultPrompt
	}
	return c.Prompt
}

// RunCount returns how many whole-benchmark executions to accumulate.
func (c Config) RunCount() int {
	if c.Runs <= 0 {
		return 1
	}
	return c.Runs
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "faceoff.log"
}

// Duration returns the load window length.
func (l LoadConfig) Duration() time.Duration {
	if l.DurationSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(l.DurationSeconds) * time.Second
}

// ConcurrencyCap returns the hard ceiling on in-flight load requests.
func (l LoadConfig) ConcurrencyCap() int {
	if l.Concurrency <= 0 {
		return 5
	}
	return l.Concurrency
}

// UserCount returns the number of virtual users, defaulting to the concurrency cap.
func (l LoadConfig) UserCount() int {
	if l.Users <= 0 {
		return l.ConcurrencyCap()
	}
	return l.Users
}

// ThinkTimeRange returns the [min,max] pause between a virtual user's iterations.
func (l LoadConfig) ThinkTimeRange() (time.Duration, time.Duration) {
	minMs := l.ThinkTimeMinMs
	maxMs := l.ThinkTimeMaxMs
	if minMs < 0 {
		minMs = 0
	}
	if maxMs < minMs {
		maxMs = minMs
	}
	return time.Duration(minMs) * time.Millisecond, time.Duration(maxMs) * time.Millisecond
}

// Load reads and validates the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := validateSchema(data); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	if len(config.Services) == 0 {
		return Config{}, errors.New("config must contain at least one service")
	}
	for _, svc := range config.Services {
		if strings.TrimSpace(svc.Name) == "" {
			return Config{}, errors.New("every service needs a name")
		}
	}
	config.ConfigPath = path

	return config, nil
}

// validateSchema validates the raw config document before decoding it.
func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
