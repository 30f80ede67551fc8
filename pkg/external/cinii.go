package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/medlit-search-server/internal/domain"
)

// CiNiiClient searches the CiNii Research open-search API. The list view
// carries no author information, so records come back with empty authors.
type CiNiiClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewCiNiiClient creates a CiNii open-search client.
func NewCiNiiClient(cfg domain.SourceConfig) *CiNiiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://cir.nii.ac.jp/opensearch/articles"
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 25
	}
	return &CiNiiClient{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type ciniiIdentifier struct {
	Type  string `json:"@type"`
	Value string `json:"@value"`
}

type ciniiItem struct {
	Title string `json:"title"`
	Link  struct {
		ID string `json:"@id"`
	} `json:"link"`
	Identifiers     []ciniiIdentifier `json:"dc:identifier"`
	PublicationName string            `json:"prism:publicationName"`
	PublicationDate string            `json:"prism:publicationDate"`
	Date            string            `json:"dc:date"`
	Language        string            `json:"dc:language"`
}

type ciniiResponse struct {
	Items []ciniiItem `json:"items"`
}

// SearchQuery runs a CiNii article search.
func (c *CiNiiClient) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"count":  {fmt.Sprintf("%d", c.maxResults)},
	}
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceCiNii, "failed to create request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceCiNii, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourceCiNii, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceCiNii, "failed to read response", err)
	}

	var res ciniiResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewUpstreamError(domain.SourceCiNii, "failed to parse response", err)
	}

	records := make([]domain.Record, 0, len(res.Items))
	for _, item := range res.Items {
		title := stripMarkup(item.Title)
		if title == "" {
			continue
		}

		doi := ""
		for _, id := range item.Identifiers {
			if id.Type == "cir:DOI" {
				doi = normalizeDOI(id.Value)
				break
			}
		}

		date := item.PublicationDate
		if date == "" {
			date = item.Date
		}

		records = append(records, newRecord(domain.Record{
			ID:            item.Link.ID,
			Title:         title,
			Authors:       []string{},
			Journal:       item.PublicationName,
			Year:          extractYear(date),
			EvidenceLevel: domain.ClassifyTitle(title),
			DOI:           doi,
			URL:           canonicalURL("", doi, item.Link.ID),
			Language:      item.Language,
		}, domain.SourceCiNii))
	}
	return records, nil
}
