// internal/discovery/discovery.go
// Package discovery maps configured service names to their addresses and
// current health. Network kinds are probed with a cheap GET; in-process
// kinds are always healthy.
package discovery

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/faceoff/internal/appconfig"
	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/services"
)

const probeTimeout = 5 * time.Second

// ServiceInfo is one discovered service.
type ServiceInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
	Kind    string `json:"kind"`
	Healthy bool   `json:"healthy"`
}

// Prober checks the health of network-backed services.
type Prober struct {
	client *http.Client
}

// NewProber constructs a Prober.
func NewProber() *Prober {
	return &Prober{client: &http.Client{Timeout: probeTimeout}}
}

// Discover returns service info for every configured service, name-sorted.
// An unreachable service is reported unhealthy, never an error: discovery
// failures must not keep healthy services from being benchmarked.
func (p *Prober) Discover(ctx context.Context, cfg *appconfig.Config) []ServiceInfo {
	infos := make([]ServiceInfo, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		info := ServiceInfo{Name: svc.Name, BaseURL: svc.URL, Kind: svc.Kind}
		if services.Kind(svc.Kind) == services.KindSimulated {
			info.Healthy = true
		} else {
			info.Healthy = p.probe(ctx, svc)
		}
		if !info.Healthy {
			logging.LogEvent("[DISCOVERY] service %s at %s is unhealthy", svc.Name, svc.URL)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Healthy filters a discovery result down to benchmarkable services.
func Healthy(infos []ServiceInfo) []ServiceInfo {
	out := make([]ServiceInfo, 0, len(infos))
	for _, info := range infos {
		if info.Healthy {
			out = append(out, info)
		}
	}
	return out
}

// probe checks a network service with a GET against its model listing.
func (p *Prober) probe(ctx context.Context, svc appconfig.Service) bool {
	base := strings.TrimRight(svc.URL, "/")
	if base == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	endpoint := base + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.LogEvent("[DISCOVERY] %s returned %s", endpoint, resp.Status)
		return false
	}
	return true
}

// Describe renders one info line per service, for the CLI listing.
func Describe(info ServiceInfo) string {
	state := "unhealthy"
	if info.Healthy {
		state = "healthy"
	}
	addr := info.BaseURL
	if addr == "" {
		addr = "(in-process)"
	}
	return fmt.Sprintf("%-20s %-10s %-9s %s", info.Name, info.Kind, state, addr)
}
