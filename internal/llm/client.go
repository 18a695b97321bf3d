package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest is one prompt sent to the model.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// JSON constrains the model output to a single JSON value.
	JSON bool
}

// GenerateResponse is the model's raw answer.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient generates text from a prompt.
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Available reports whether the server answers at all.
	Available(ctx context.Context) bool
}

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"

	dialTimeout  = 5 * time.Second
	probeTimeout = 2 * time.Second
	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 512
)

type ollamaClient struct {
	cfg  LLMConfig
	http *http.Client
	obs  Observer
}

// NewOllamaClient returns an LLMClient backed by an Ollama server at
// cfg.Endpoint.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &ollamaClient{
		cfg:  cfg,
		http: &http.Client{Transport: &http.Transport{DialContext: dialer.DialContext}},
		obs:  observer,
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// statusError is a non-200 answer from the server.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.code, e.body)
}

func (c *ollamaClient) body(req GenerateRequest) ollamaRequest {
	b := ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Options: ollamaOptions{
			Temperature: c.cfg.Temperature,
			NumPredict:  c.cfg.MaxTokens,
		},
	}
	if req.JSON {
		b.Format = "json"
	}
	return b
}

// Generate makes up to 1+MaxRetries attempts, each bounded by TimeoutMs.
// Cancelling ctx ends the loop early and reports ErrTimeout.
func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	body := c.body(req)
	event := LLMCallEvent{Task: req.Task, Model: c.cfg.Model}

	attempts := max(1, 1+c.cfg.MaxRetries)
	var err error
	for event.Attempts < attempts {
		event.Attempts++
		var out ollamaResponse
		if err = c.once(ctx, body, &out); err == nil {
			event.Success = true
			event.LatencyMs = time.Since(start).Milliseconds()
			c.obs.OnCallComplete(event)
			return &GenerateResponse{Text: out.Response, Model: out.Model, LatencyMs: event.LatencyMs}, nil
		}
		if ctx.Err() != nil {
			break
		}
	}

	err = classify(ctx, err)
	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(err)
	c.obs.OnCallComplete(event)
	return nil, err
}

// classify maps the last attempt's failure onto the package sentinels.
func classify(ctx context.Context, err error) error {
	var opErr *net.OpError
	switch {
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &opErr):
		return ErrOllamaUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func (c *ollamaClient) once(ctx context.Context, in ollamaRequest, out *ollamaResponse) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+generatePath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{code: resp.StatusCode, body: string(msg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+tagsPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
