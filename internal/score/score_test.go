package score

import (
	"math"
	"strings"
	"testing"

	"github.com/mwiater/faceoff/internal/stats"
)

func TestOverallScoreBounds(t *testing.T) {
	cases := []struct {
		mean, successRate, tps float64
	}{
		{0, 0, 0},
		{0, 100, 1000},
		{50, 100, 50},
		{2000, 0, 0},
		{999999, 100, 0.001},
		{1, 50, 25},
	}
	for _, c := range cases {
		got := Overall(c.mean, c.successRate, c.tps)
		if got < 0 || got > 1 {
			t.Fatalf("Overall(%v, %v, %v) = %v out of [0,1]", c.mean, c.successRate, c.tps, got)
		}
	}
}

func TestOverallScoreAnchors(t *testing.T) {
	// Perfect service: <=50ms mean, 100% success, >=50 tok/s.
	if got := Overall(50, 100, 50); got != 1 {
		t.Fatalf("perfect score: %v", got)
	}
	// Latency anchor midpoint: (2000-1025)/1950 = 0.5 exactly.
	if got := PerformanceRating(1025); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("latency midpoint: %v", got)
	}
}

func TestThroughputBreaksLatencyTie(t *testing.T) {
	fast := stats.Statistics{Count: 10, Mean: 100}
	a := Compare("service-a", fast, 100, 60)
	b := Compare("service-b", fast, 100, 20)

	winner, _ := DetermineWinner([]ComparisonResult{b, a})
	if winner != "service-a" {
		t.Fatalf("winner: %s", winner)
	}
	if a.OverallScore <= b.OverallScore {
		t.Fatalf("scores: a=%v b=%v", a.OverallScore, b.OverallScore)
	}
}

func TestDetermineWinnerSkipsAllFailed(t *testing.T) {
	dead := Compare("dead", stats.Statistics{Count: 0}, 0, 0)
	alive := Compare("alive", stats.Statistics{Count: 5, Mean: 400}, 80, 10)

	winner, reasoning := DetermineWinner([]ComparisonResult{dead, alive})
	if winner != "alive" {
		t.Fatalf("winner: %s", winner)
	}
	if reasoning == "" {
		t.Fatal("expected reasoning text")
	}
}

func TestDetermineWinnerNoQualifiers(t *testing.T) {
	winner, reasoning := DetermineWinner([]ComparisonResult{
		Compare("a", stats.Statistics{}, 0, 0),
	})
	if winner != "" {
		t.Fatalf("winner: %s", winner)
	}
	if !strings.Contains(reasoning, "no service") {
		t.Fatalf("reasoning: %s", reasoning)
	}
}

func TestDetermineWinnerTieBreaksLexicographically(t *testing.T) {
	s := stats.Statistics{Count: 10, Mean: 100}
	a := Compare("zeta", s, 100, 40)
	b := Compare("alpha", s, 100, 40)

	winner, _ := DetermineWinner([]ComparisonResult{a, b})
	if winner != "alpha" {
		t.Fatalf("tie-break winner: %s", winner)
	}
}

func TestReasoningThresholds(t *testing.T) {
	r := Compare("svc", stats.Statistics{Count: 10, Mean: 150}, 99, 45)
	reasoning := Reasoning(r)
	if !strings.Contains(reasoning, "first-token") {
		t.Fatalf("expected latency mention: %s", reasoning)
	}
	if !strings.Contains(reasoning, "reliability") {
		t.Fatalf("expected reliability mention: %s", reasoning)
	}
	if !strings.Contains(reasoning, "throughput") {
		t.Fatalf("expected throughput mention: %s", reasoning)
	}

	slow := Compare("svc", stats.Statistics{Count: 10, Mean: 1500}, 50, 5)
	if got := Reasoning(slow); !strings.Contains(got, "overall score") {
		t.Fatalf("expected fallback reasoning: %s", got)
	}
}

func TestCompareServicesStableOrder(t *testing.T) {
	acc := map[string]*stats.MultiRun{
		"b": stats.NewMultiRun(),
		"a": stats.NewMultiRun(),
		"c": stats.NewMultiRun(),
	}
	acc["a"].AddRun(100, 1000, 30)
	acc["b"].AddRun(120, 1000, 30)
	acc["c"].RecordError()

	results := CompareServices(acc, 1, 500)
	if len(results) != 3 {
		t.Fatalf("results: %d", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].ServiceID != want {
			t.Fatalf("order[%d] = %s, want %s", i, results[i].ServiceID, want)
		}
	}
	if results[2].SuccessRate != 0 {
		t.Fatalf("failed service success rate: %v", results[2].SuccessRate)
	}
}
