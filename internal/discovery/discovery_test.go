package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwiater/faceoff/internal/appconfig"
)

func TestDiscoverProbesNetworkServices(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected probe path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	sick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sick.Close()

	cfg := &appconfig.Config{
		Services: []appconfig.Service{
			{Name: "up", Kind: "ollama", URL: healthy.URL},
			{Name: "down", Kind: "ollama", URL: sick.URL},
			{Name: "sim", Kind: "simulated"},
		},
	}

	infos := NewProber().Discover(context.Background(), cfg)
	if len(infos) != 3 {
		t.Fatalf("infos: %d", len(infos))
	}
	// Name-sorted: down, sim, up.
	if infos[0].Name != "down" || infos[0].Healthy {
		t.Fatalf("down: %+v", infos[0])
	}
	if infos[1].Name != "sim" || !infos[1].Healthy {
		t.Fatalf("sim: %+v", infos[1])
	}
	if infos[2].Name != "up" || !infos[2].Healthy {
		t.Fatalf("up: %+v", infos[2])
	}

	remaining := Healthy(infos)
	if len(remaining) != 2 {
		t.Fatalf("healthy: %d", len(remaining))
	}
}

func TestDiscoverUnreachableService(t *testing.T) {
	cfg := &appconfig.Config{
		Services: []appconfig.Service{
			{Name: "gone", Kind: "ollama", URL: "http://127.0.0.1:1"},
		},
	}
	infos := NewProber().Discover(context.Background(), cfg)
	if infos[0].Healthy {
		t.Fatal("unreachable service reported healthy")
	}
}

func TestDescribe(t *testing.T) {
	line := Describe(ServiceInfo{Name: "sim", Kind: "simulated", Healthy: true})
	if !strings.Contains(line, "sim") || !strings.Contains(line, "healthy") || !strings.Contains(line, "(in-process)") {
		t.Fatalf("line: %q", line)
	}
}
