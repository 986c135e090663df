package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aescanero/dailyquote/internal/domain"
)

type recordedCall struct {
	model, status string
}

type fakeMetrics struct {
	calls        []recordedCall
	inputTokens  int64
	outputTokens int64
}

func (f *fakeMetrics) ObserveLLMCall(model, status string, _ time.Duration) {
	f.calls = append(f.calls, recordedCall{model: model, status: status})
}

func (f *fakeMetrics) AddLLMTokens(_ string, input, output int64) {
	f.inputTokens += input
	f.outputTokens += output
}

func (f *fakeMetrics) RecordEmailSent(string, int) {}
func (f *fakeMetrics) RecordRun(string, time.Duration) {}

const messageJSON = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [{"type": "text", "text": %q}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 34}
}`

func newTestClient(t *testing.T, url string, metrics *fakeMetrics, logger *zap.Logger) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		APIKey:      "sk-ant-test",
		BaseURL:     url,
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   1000,
		Temperature: 0,
		Metrics:     metrics,
		Logger:      logger,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(&Config{Model: "m"})
	assert.EqualError(t, err, "LLM API key is required")

	_, err = NewClient(&Config{APIKey: "k"})
	assert.EqualError(t, err, "LLM model is required")
}

func TestClient_Complete(t *testing.T) {
	var body map[string]any
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonMessage("Keep going.")))
	}))
	defer srv.Close()

	metrics := &fakeMetrics{}
	client := newTestClient(t, srv.URL, metrics, zap.NewNop())

	text, err := client.Complete(context.Background(), "be brief", "It is Monday. Please generate me a quote")
	require.NoError(t, err)
	assert.Equal(t, "Keep going.", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	assert.Equal(t, "claude-3-5-sonnet-20241022", body["model"])
	assert.EqualValues(t, 1000, body["max_tokens"])
	require.Contains(t, body, "temperature")
	assert.EqualValues(t, 0, body["temperature"])

	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	content := first["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "It is Monday. Please generate me a quote", content[0].(map[string]any)["text"])

	assert.Equal(t, []recordedCall{{model: "claude-3-5-sonnet-20241022", status: "ok"}}, metrics.calls)
	assert.Equal(t, int64(12), metrics.inputTokens)
	assert.Equal(t, int64(34), metrics.outputTokens)
}

func TestClient_Complete_NoCaching(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonMessage("same")))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &fakeMetrics{}, zap.NewNop())
	for i := 0; i < 2; i++ {
		_, err := client.Complete(context.Background(), "s", "u")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_Complete_ProviderError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.ErrorLevel)
	metrics := &fakeMetrics{}
	client := newTestClient(t, srv.URL, metrics, zap.New(core))

	text, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Empty(t, text)
	assert.Contains(t, err.Error(), "failed to call completion provider")

	// no retry
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, []recordedCall{{model: "claude-3-5-sonnet-20241022", status: "error"}}, metrics.calls)

	entries := logs.FilterMessage("error calling completion provider").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, http.StatusUnauthorized, entries[0].ContextMap()["status_code"])
}

func TestClient_Complete_NoTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_02","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",` +
			`"content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &fakeMetrics{}, zap.NewNop())

	_, err := client.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestClient_NewRequest(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", &fakeMetrics{}, zap.NewNop())

	req := client.NewRequest("sys", "usr")

	assert.Equal(t, &domain.CompletionRequest{
		System:      "sys",
		User:        "usr",
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   1000,
		Temperature: 0,
	}, req)
}

func jsonMessage(text string) string {
	return fmt.Sprintf(messageJSON, text)
}
