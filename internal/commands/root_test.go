package faceoff

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/faceoff/internal/logging"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `{"services":[{"name":"sim","kind":"simulated"}]}`

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "faceoff.log")
	configPath := writeTempConfig(t, minimalConfig)

	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prevCfgFile })
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "simultaneous", "runs", "logFile"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("simultaneous", "true")
	_ = rootCmd.PersistentFlags().Set("runs", "3")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if !currentConfig.Simultaneous {
		t.Fatalf("expected simultaneous flag to flow into config: %+v", currentConfig)
	}
	if currentConfig.RunCount() != 3 {
		t.Fatalf("expected 3 runs, got %d", currentConfig.RunCount())
	}
	if currentConfig.LogFilePath() != logPath {
		t.Fatalf("expected log file %s, got %s", logPath, currentConfig.LogFilePath())
	}
}

func TestPersistentPreRunEMissingConfig(t *testing.T) {
	prevCfgFile := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { cfgFile = prevCfgFile })

	for _, name := range []string{"debug", "simultaneous", "runs", "logFile"} {
		resetFlag(name)
	}

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestHealthyEndpointsSimulatedOnly(t *testing.T) {
	configPath := writeTempConfig(t, `{"services":[
		{"name":"sim-b","kind":"simulated"},
		{"name":"sim-a","kind":"simulated"}
	]}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = prevCfgFile })
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "simultaneous", "runs", "logFile"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("logFile", filepath.Join(t.TempDir(), "faceoff.log"))
	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	endpoints, err := healthyEndpoints(context.Background(), GetConfig())
	if err != nil {
		t.Fatalf("healthyEndpoints error: %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(endpoints))
	}
	// Endpoints follow config order, not probe order.
	if endpoints[0].Name() != "sim-b" || endpoints[1].Name() != "sim-a" {
		t.Fatalf("unexpected endpoint order: %s, %s", endpoints[0].Name(), endpoints[1].Name())
	}
}
