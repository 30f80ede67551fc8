package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
)

// AIClient proxies the two generative-model endpoints. The client supplies
// its own API key per request; the server only forwards prompts.
type AIClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewAIClient creates the generative-model proxy client.
func NewAIClient(cfg domain.AIConfig, logger *logrus.Logger) *AIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AIClient{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ParsedQuery is the structured interpretation of a free-form clinical
// query returned by /api/ai/parse.
type ParsedQuery struct {
	Disease   string   `json:"disease,omitempty"`
	Treatment string   `json:"treatment,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

const parsePromptTemplate = `Parse the following clinical search query into JSON with the optional string fields "disease", "treatment", "topic" and an optional "keywords" array. Respond with JSON only.

Query: %s`

// ParseQuery asks the model to split a free-form query into structured
// clinical fields.
func (a *AIClient) ParseQuery(ctx context.Context, query, apiKey string) (*ParsedQuery, error) {
	text, err := a.generate(ctx, fmt.Sprintf(parsePromptTemplate, query), apiKey)
	if err != nil {
		return nil, err
	}

	var parsed ParsedQuery
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("model returned unparseable JSON: %w", err)
	}
	return &parsed, nil
}

const summaryPromptTemplate = `Summarize the clinical evidence below for the query %q in at most five sentences, noting the strongest evidence level represented.

%s`

// Summarize asks the model for a short evidence summary of search results.
func (a *AIClient) Summarize(ctx context.Context, results json.RawMessage, query, apiKey string) (string, error) {
	return a.generate(ctx, fmt.Sprintf(summaryPromptTemplate, query, string(results)), apiKey)
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (a *AIClient) generate(ctx context.Context, prompt, apiKey string) (string, error) {
	var reqBody generateRequest
	reqBody.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	reqBody.Contents[0].Parts = make([]struct {
		Text string `json:"text"`
	}, 1)
	reqBody.Contents[0].Parts[0].Text = prompt

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode model request: %w", err)
	}

	fullURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.WithField("status", resp.StatusCode).Warn("Generative model returned non-OK")
		return "", fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read model response: %w", err)
	}

	var res generateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to parse model response: %w", err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}
	return strings.TrimSpace(res.Candidates[0].Content.Parts[0].Text), nil
}

// extractJSON trims markdown code fences the model sometimes wraps around
// its JSON answer.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
