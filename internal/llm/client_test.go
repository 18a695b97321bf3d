package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

// reply answers every generate call with text.
func reply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: text})
	}
}

func serve(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func draft(ctx context.Context, client LLMClient) (*GenerateResponse, error) {
	return client.Generate(ctx, GenerateRequest{Task: TaskPlanDraft, UserPrompt: "test"})
}

type recordingObserver struct {
	events []LLMCallEvent
}

func (o *recordingObserver) OnCallComplete(e LLMCallEvent) { o.events = append(o.events, e) }

func (o *recordingObserver) last() LLMCallEvent {
	if len(o.events) == 0 {
		return LLMCallEvent{}
	}
	return o.events[len(o.events)-1]
}

func TestGenerate_SendsPromptAndReturnsText(t *testing.T) {
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, generatePath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.Equal(t, "json", req.Format)
		assert.InDelta(t, 0.3, req.Options.Temperature, 1e-9)
		assert.Equal(t, 4096, req.Options.NumPredict)

		reply(`{"name":"Plan"}`)(w, r)
	}))

	obs := &recordingObserver{}
	resp, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), GenerateRequest{
		Task:         TaskPlanDraft,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		JSON:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Plan"}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)

	require.Len(t, obs.events, 1)
	ev := obs.last()
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Attempts)
	assert.Equal(t, TaskPlanDraft, ev.Task)
	assert.Empty(t, ev.ErrorCode)
}

func TestGenerate_PlainRequestOmitsFormat(t *testing.T) {
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.NotContains(t, raw, "format")
		assert.NotContains(t, raw, "system")
		reply("ok")(w, r)
	}))

	_, err := draft(context.Background(), NewOllamaClient(testConfig(srv.URL), nil))
	require.NoError(t, err)
}

func TestGenerate_Failures(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	badRequest := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	garbage := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	tests := []struct {
		name     string
		handler  http.Handler
		endpoint string
		want     error
		code     string
	}{
		{name: "timeout", handler: slow, want: ErrTimeout, code: "TIMEOUT"},
		{name: "status", handler: badRequest, want: ErrRetryExhausted, code: "RETRY_EXHAUSTED"},
		{name: "undecodable", handler: garbage, want: ErrRetryExhausted, code: "RETRY_EXHAUSTED"},
		{name: "nothing listening", endpoint: "http://127.0.0.1:1", want: ErrOllamaUnavailable, code: "UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := tt.endpoint
			if tt.handler != nil {
				endpoint = serve(t, tt.handler).URL
			}
			cfg := testConfig(endpoint)
			cfg.MaxRetries = 0
			cfg.TimeoutMs = 50
			if tt.handler == nil {
				cfg.TimeoutMs = 1000
			}

			obs := &recordingObserver{}
			_, err := draft(context.Background(), NewOllamaClient(cfg, obs))
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, obs.last().Success)
			assert.Equal(t, tt.code, obs.last().ErrorCode)
		})
	}
}

func TestGenerate_StatusErrorKeepsBody(t *testing.T) {
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	_, err := draft(context.Background(), NewOllamaClient(cfg, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestGenerate_RetriesAfterServerError(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		reply("ok")(w, r)
	}))
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	obs := &recordingObserver{}
	resp, err := draft(context.Background(), NewOllamaClient(cfg, obs))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, obs.last().Attempts)
}

func TestGenerate_EachAttemptHasItsOwnTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(120 * time.Millisecond)
		}
		reply("ok")(w, r)
	}))
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1
	cfg.TimeoutMs = 50

	resp, err := draft(context.Background(), NewOllamaClient(cfg, nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerate_CancelledContextStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := draft(ctx, NewOllamaClient(cfg, nil))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}

func TestGenerate_NegativeRetriesStillAttemptsOnce(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		reply("ok")(w, r)
	}))
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = -2

	_, err := draft(context.Background(), NewOllamaClient(cfg, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAvailable(t *testing.T) {
	srv := serve(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tagsPath, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.True(t, NewOllamaClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestLogObserver_WritesRecord(t *testing.T) {
	var buf strings.Builder
	obs := NewLogObserver(&buf)
	obs.OnCallComplete(LLMCallEvent{Task: TaskPlanDraft, Model: "m", Success: false, ErrorCode: "TIMEOUT"})

	out := buf.String()
	assert.Contains(t, out, "msg=llm_call")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "task=plan_draft")
	assert.Contains(t, out, "error_code=TIMEOUT")
}
