package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
)

// TranslatorClient translates short strings through the configured
// consumer translation endpoint. Any failure — network, timeout, parse,
// or an echo of the input — degrades to ("", false); callers proceed as
// if translation had not been requested.
type TranslatorClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *expirable.LRU[string, string]
	logger     *logrus.Logger
}

// NewTranslatorClient creates a translation client with a TTL cache so
// repeated queries for common clinical terms skip the network.
func NewTranslatorClient(cfg domain.TranslateConfig, logger *logrus.Logger) *TranslatorClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &TranslatorClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      expirable.NewLRU[string, string](1024, nil, ttl),
		logger:     logger,
	}
}

// Translate translates text from src to tgt (two-letter codes). The
// boolean is false when no usable translation was produced.
func (t *TranslatorClient) Translate(ctx context.Context, text, src, tgt string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	cacheKey := src + ":" + tgt + ":" + strings.ToLower(text)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return cached, cached != ""
	}

	translated := t.fetch(ctx, text, src, tgt)
	if strings.EqualFold(translated, text) {
		translated = ""
	}
	t.cache.Add(cacheKey, translated)
	return translated, translated != ""
}

// fetch issues the GET and concatenates segment[0] across the first
// element of the response.
func (t *TranslatorClient) fetch(ctx context.Context, text, src, tgt string) string {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {src},
		"tl":     {tgt},
		"dt":     {"t"},
		"q":      {text},
	}
	fullURL := fmt.Sprintf("%s?%s", t.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return ""
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.WithError(err).Debug("Translation request failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.WithField("status", resp.StatusCode).Debug("Translation endpoint returned non-OK")
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return parseTranslation(body)
}

// parseTranslation decodes the endpoint's nested-array payload: the first
// element is a list of segment tuples whose first member is the translated
// text.
func parseTranslation(body []byte) string {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return ""
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, seg := range segments {
		var tuple []json.RawMessage
		if err := json.Unmarshal(seg, &tuple); err != nil || len(tuple) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(tuple[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	return strings.TrimSpace(sb.String())
}
