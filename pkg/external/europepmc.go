package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/medlit-search-server/internal/domain"
)

// EPMCClient searches the Europe PMC REST API. It accepts a joined query
// string which may already contain AND/OR groupings.
type EPMCClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewEPMCClient creates a Europe PMC client.
func NewEPMCClient(cfg domain.SourceConfig) *EPMCClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 25
	}
	return &EPMCClient{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type epmcResult struct {
	ID           string `json:"id"`
	PMID         string `json:"pmid"`
	Title        string `json:"title"`
	AuthorString string `json:"authorString"`
	JournalTitle string `json:"journalTitle"`
	PubYear      string `json:"pubYear"`
	DOI          string `json:"doi"`
	Language     string `json:"language"`
	PubTypeList  struct {
		PubType []string `json:"pubType"`
	} `json:"pubTypeList"`
}

type epmcResponse struct {
	ResultList struct {
		Result []epmcResult `json:"result"`
	} `json:"resultList"`
}

// SearchQuery runs a Europe PMC search.
func (e *EPMCClient) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	params := url.Values{
		"query":    {query},
		"format":   {"json"},
		"pageSize": {fmt.Sprintf("%d", e.maxResults)},
	}
	fullURL := fmt.Sprintf("%s?%s", e.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceEPMC, "failed to create request", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceEPMC, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourceEPMC, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceEPMC, "failed to read response", err)
	}

	var res epmcResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewUpstreamError(domain.SourceEPMC, "failed to parse response", err)
	}

	records := make([]domain.Record, 0, len(res.ResultList.Result))
	for _, r := range res.ResultList.Result {
		title := stripMarkup(r.Title)
		if title == "" {
			continue
		}

		var authors []string
		for _, a := range strings.Split(r.AuthorString, ",") {
			if a = strings.TrimSpace(strings.TrimSuffix(a, ".")); a != "" {
				authors = append(authors, a)
			}
		}

		doi := normalizeDOI(r.DOI)
		pubTypes := r.PubTypeList.PubType

		records = append(records, newRecord(domain.Record{
			ID:            r.ID,
			Title:         title,
			Authors:       capAuthors(authors),
			Journal:       r.JournalTitle,
			Year:          extractYear(r.PubYear),
			PubTypes:      pubTypes,
			EvidenceLevel: domain.Classify(pubTypes, title),
			DOI:           doi,
			URL:           canonicalURL(r.PMID, doi, "https://europepmc.org/article/MED/"+r.ID),
			Language:      r.Language,
		}, domain.SourceEPMC))
	}
	return records, nil
}
