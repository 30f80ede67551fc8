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

// MeSHClient proxies term lookups to the NLM MeSH suggest endpoint.
// Failures degrade to an empty list; the endpoint never errors a request.
type MeSHClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *expirable.LRU[string, []string]
	logger     *logrus.Logger
}

// NewMeSHClient creates a MeSH suggest client with a TTL cache.
func NewMeSHClient(cfg domain.MeSHConfig, logger *logrus.Logger) *MeSHClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 6 * time.Hour
	}
	return &MeSHClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      expirable.NewLRU[string, []string](512, nil, ttl),
		logger:     logger,
	}
}

// Lookup returns MeSH term labels matching the query, empty on any
// upstream failure.
func (m *MeSHClient) Lookup(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := m.cache.Get(cacheKey); ok {
		return cached
	}

	labels := m.fetch(ctx, query)
	m.cache.Add(cacheKey, labels)
	return labels
}

func (m *MeSHClient) fetch(ctx context.Context, query string) []string {
	params := url.Values{"terms": {query}}
	fullURL := fmt.Sprintf("%s?%s", m.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return []string{}
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.WithError(err).Debug("MeSH lookup failed")
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []string{}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []string{}
	}
	return parseMeSH(body)
}

// parseMeSH decodes the clinical-tables payload: a four-element array
// whose last member is a list of single-label rows.
func parseMeSH(body []byte) []string {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) < 4 {
		return []string{}
	}

	var rows [][]string
	if err := json.Unmarshal(payload[3], &rows); err != nil {
		return []string{}
	}

	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[0] != "" {
			labels = append(labels, row[0])
		}
	}
	return labels
}
