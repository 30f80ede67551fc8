package external

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/domain"
)

func newAITestClient(t *testing.T, handler http.HandlerFunc) *AIClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewAIClient(domain.AIConfig{
		BaseURL: ts.URL,
		Model:   "test-model",
		Timeout: 2 * time.Second,
	}, testLogger())
}

func TestAIParseQuery(t *testing.T) {
	client := newAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "sekrit", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "exercise for stroke patients")

		text := "```json\n{\"disease\":\"stroke\",\"treatment\":\"exercise\"}\n```"
		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	parsed, err := client.ParseQuery(context.Background(), "exercise for stroke patients", "sekrit")
	require.NoError(t, err)
	assert.Equal(t, "stroke", parsed.Disease)
	assert.Equal(t, "exercise", parsed.Treatment)
}

func TestAISummarize(t *testing.T) {
	client := newAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Strong RCT evidence supports exercise.  "}]}}]}`))
	})

	summary, err := client.Summarize(context.Background(), json.RawMessage(`[{"title":"x"}]`), "exercise", "key")
	require.NoError(t, err)
	assert.Equal(t, "Strong RCT evidence supports exercise.", summary)
}

func TestAIUpstreamError(t *testing.T) {
	client := newAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ParseQuery(context.Background(), "q", "bad-key")
	assert.Error(t, err)
}

func TestAINoCandidates(t *testing.T) {
	client := newAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.ParseQuery(context.Background(), "q", "key")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(` {"a":1} `))
}
