// internal/services/service.go

// Package services defines the endpoint capability every text-generation
// backend exposes to the benchmark engine, and the closed registry of
// backend kinds. The engine itself never cares which kind it is talking to;
// the concrete implementation is chosen exactly once at construction.
package services

import (
	"context"
)

// ChunkFunc receives one partial-text chunk from a streaming generation.
// Returning an error stops the stream.
type ChunkFunc func(text string) error

// Request describes one generation call.
type Request struct {
	Prompt string
	Model  string
}

// Result is the terminal outcome of a generation call.
type Result struct {
	Text       string
	TokenCount int
}

// Endpoint is the capability surface of one text-generation backend.
// Implementations must be safe for concurrent use; the load generator
// issues many overlapping calls against a single Endpoint.
type Endpoint interface {
	// Name returns the configured service name.
	Name() string
	// BaseURL returns the backend's base address ("" for in-process backends).
	BaseURL() string
	// StreamGenerate issues a streaming generation, invoking onChunk for each
	// partial-text chunk, and returns terminal metadata once the stream ends.
	StreamGenerate(ctx context.Context, req Request, onChunk ChunkFunc) (Result, error)
	// Generate issues a non-streaming generation and returns the full response.
	Generate(ctx context.Context, req Request) (Result, error)
}
