// internal/servicefactory/factory.go
package servicefactory

import (
	"fmt"

	"github.com/mwiater/faceoff/internal/appconfig"
	"github.com/mwiater/faceoff/internal/services"
	"github.com/mwiater/faceoff/internal/services/ollama"
	"github.com/mwiater/faceoff/internal/services/simulated"
)

// builders is the single table from endpoint kind to constructor. New kinds
// are added here and nowhere else.
var builders = map[services.Kind]func(*appconfig.Config, appconfig.Service) (services.Endpoint, error){
	services.KindOllama: func(cfg *appconfig.Config, svc appconfig.Service) (services.Endpoint, error) {
		if svc.URL == "" {
			return nil, fmt.Errorf("service %q: ollama endpoints require a url", svc.Name)
		}
		return ollama.New(svc.Name, svc.URL, svc.Model, cfg.RequestTimeout()), nil
	},
	services.KindSimulated: func(cfg *appconfig.Config, svc appconfig.Service) (services.Endpoint, error) {
		return simulated.New(svc), nil
	},
}

// NewEndpoint constructs the endpoint for one configured service.
func NewEndpoint(cfg *appconfig.Config, svc appconfig.Service) (services.Endpoint, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to service factory")
	}
	kind, err := services.ParseKind(svc.Kind)
	if err != nil {
		return nil, fmt.Errorf("service %q: %w", svc.Name, err)
	}
	build, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("service %q: no builder for kind %q", svc.Name, kind)
	}
	return build(cfg, svc)
}

// Endpoints constructs every configured endpoint, in config order.
func Endpoints(cfg *appconfig.Config) ([]services.Endpoint, error) {
	if cfg == nil || len(cfg.Services) == 0 {
		return nil, fmt.Errorf("no services configured")
	}
	endpoints := make([]services.Endpoint, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		endpoint, err := NewEndpoint(cfg, svc)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints, nil
}
