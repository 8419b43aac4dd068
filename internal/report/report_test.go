package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/faceoff/internal/benchmark"
	"github.com/mwiater/faceoff/internal/score"
	"github.com/mwiater/faceoff/internal/stats"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	tempDir := t.TempDir()
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Service:One":     "service_one",
		"  Service Two  ": "service-two",
		"Service--Three!": "service-three",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestWriteTTFTResult(t *testing.T) {
	chdirTemp(t)

	result := &benchmark.TTFTResult{
		Services: []benchmark.ServiceReport{
			{ServiceID: "Svc:One", Statistics: stats.Statistics{Count: 3, Mean: 120}},
		},
		Winner:    "Svc:One",
		Reasoning: "fast first-token latency",
	}

	path, err := WriteTTFTResult(result, 3)
	if err != nil {
		t.Fatalf("WriteTTFTResult: %v", err)
	}
	expected := filepath.Join("faceoffData", "benchmarks", "ttft-svc_one-3.json")
	if path != expected {
		t.Fatalf("path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !strings.Contains(string(data), "Svc:One") {
		t.Fatalf("expected service name in output: %s", string(data))
	}
	var decoded benchmark.TTFTResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if decoded.Winner != "Svc:One" {
		t.Fatalf("winner round-trip: %s", decoded.Winner)
	}
}

func TestWriteLoadResult(t *testing.T) {
	chdirTemp(t)

	result := &benchmark.LoadResult{ServiceID: "svc", Total: 42}
	path, err := WriteLoadResult(result)
	if err != nil {
		t.Fatalf("WriteLoadResult: %v", err)
	}
	if !strings.HasSuffix(path, "load-svc-42.json") {
		t.Fatalf("path: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestRenderComparisonTableRanksByScore(t *testing.T) {
	results := []score.ComparisonResult{
		score.Compare("slow", stats.Statistics{Count: 5, Mean: 900}, 100, 10),
		score.Compare("fast", stats.Statistics{Count: 5, Mean: 90}, 100, 45),
	}
	table := renderComparisonTable(results)
	fastIdx := strings.Index(table, "fast")
	slowIdx := strings.Index(table, "slow")
	if fastIdx < 0 || slowIdx < 0 || fastIdx > slowIdx {
		t.Fatalf("expected fast ranked above slow:\n%s", table)
	}
}

func TestRenderTTFTTableEmptyService(t *testing.T) {
	result := &benchmark.TTFTResult{
		Services: []benchmark.ServiceReport{
			{ServiceID: "dead", Statistics: stats.Statistics{}},
		},
	}
	// No-data services must render without panicking.
	table := renderTTFTTable(result)
	if !strings.Contains(table, "dead") {
		t.Fatalf("table: %s", table)
	}
}
