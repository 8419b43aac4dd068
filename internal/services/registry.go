// internal/services/registry.go
package services

import "fmt"

// Kind identifies a backend implementation. The set is closed; the factory
// holds the single lookup table from kind to constructor.
type Kind string

const (
	// KindOllama is an Ollama-compatible HTTP backend.
	KindOllama Kind = "ollama"
	// KindSimulated is the deterministic in-process backend.
	KindSimulated Kind = "simulated"
)

// ParseKind converts a configured kind string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindOllama:
		return KindOllama, nil
	case KindSimulated:
		return KindSimulated, nil
	default:
		return "", fmt.Errorf("services: unknown endpoint kind %q", s)
	}
}
