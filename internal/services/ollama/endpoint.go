// internal/services/ollama/endpoint.go
// Package ollama provides a services.Endpoint backed by Ollama-compatible
// HTTP APIs.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/faceoff/internal/logging"
	"github.com/mwiater/faceoff/internal/services"
)

// Endpoint implements services.Endpoint using the /api/chat surface.
type Endpoint struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
	timeout time.Duration
}

// New constructs an Endpoint for one configured service.
func New(name, baseURL, model string, timeout time.Duration) *Endpoint {
	return &Endpoint{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

// chatMessage mirrors the request/response message shape of /api/chat.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamChunk defines the structure of a single chunk in a streaming response.
type streamChunk struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`

	TotalDuration      int64 `json:"total_duration"`
	PromptEvalCount    int   `json:"prompt_eval_count"`
	PromptEvalDuration int64 `json:"prompt_eval_duration"`
	EvalCount          int   `json:"eval_count"`
	EvalDuration       int64 `json:"eval_duration"`
}

// Name returns the configured service name.
func (e *Endpoint) Name() string { return e.name }

// BaseURL returns the backend's base address.
func (e *Endpoint) BaseURL() string { return e.baseURL }

// StreamGenerate issues a streaming chat request and forwards each content
// chunk to onChunk.
func (e *Endpoint) StreamGenerate(ctx context.Context, req services.Request, onChunk services.ChunkFunc) (services.Result, error) {
	resp, err := e.post(ctx, req, true)
	if err != nil {
		return services.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.LogRequest("LLM->FACEOFF", e.name, e.modelFor(req), body)
		return services.Result{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	decoder := json.NewDecoder(resp.Body)
	var text strings.Builder
	var final streamChunk
	for {
		var chunk streamChunk
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return services.Result{}, err
		}

		if chunk.Message.Content != "" {
			text.WriteString(chunk.Message.Content)
			if onChunk != nil {
				if err := onChunk(chunk.Message.Content); err != nil {
					return services.Result{}, err
				}
			}
		}

		if chunk.Done {
			final = chunk
			break
		}
	}

	return services.Result{
		Text:       text.String(),
		TokenCount: final.EvalCount,
	}, nil
}

// Generate issues a non-streaming chat request and returns the full response.
func (e *Endpoint) Generate(ctx context.Context, req services.Request) (services.Result, error) {
	resp, err := e.post(ctx, req, false)
	if err != nil {
		return services.Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Result{}, err
	}
	logging.LogRequest("LLM->FACEOFF", e.name, e.modelFor(req), body)

	if resp.StatusCode != http.StatusOK {
		return services.Result{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result streamChunk
	if err := json.Unmarshal(body, &result); err != nil {
		return services.Result{}, err
	}

	return services.Result{
		Text:       result.Message.Content,
		TokenCount: result.EvalCount,
	}, nil
}

// post sends the chat request. The caller owns the response body.
func (e *Endpoint) post(ctx context.Context, req services.Request, stream bool) (*http.Response, error) {
	model := e.modelFor(req)
	payload := map[string]any{
		"model":    model,
		"messages": []chatMessage{{Role: "user", Content: req.Prompt}},
		"stream":   stream,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("FACEOFF->LLM", e.name, model, body)

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the timeout to the body so streaming reads stay bounded.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (e *Endpoint) modelFor(req services.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return e.model
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
