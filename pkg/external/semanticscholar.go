package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/medlit-search-server/internal/domain"
)

// S2Client searches the Semantic Scholar citation aggregator. The service
// rate-limits unauthenticated callers aggressively, so a 429 is treated as
// a benign empty result rather than an error.
type S2Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

// NewS2Client creates a Semantic Scholar client.
func NewS2Client(cfg domain.SourceConfig) *S2Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.semanticscholar.org/graph/v1/"
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 25
	}
	return &S2Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type s2Paper struct {
	PaperID          string   `json:"paperId"`
	Title            string   `json:"title"`
	Year             int      `json:"year"`
	Venue            string   `json:"venue"`
	URL              string   `json:"url"`
	CitationCount    *int     `json:"citationCount"`
	PublicationTypes []string `json:"publicationTypes"`
	Authors          []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ExternalIDs struct {
		DOI    string `json:"DOI"`
		PubMed string `json:"PubMed"`
	} `json:"externalIds"`
}

type s2Response struct {
	Data []s2Paper `json:"data"`
}

// SearchQuery runs a paper search against the Semantic Scholar graph API.
func (s *S2Client) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", s.maxResults)},
		"fields": {"title,authors,year,venue,externalIds,publicationTypes,citationCount,url"},
	}
	fullURL := fmt.Sprintf("%spaper/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceS2, "failed to create request", err)
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceS2, "request failed", err)
	}
	defer resp.Body.Close()

	// Soft empty keeps the orchestration degrading gracefully under
	// upstream rate limiting.
	if resp.StatusCode == http.StatusTooManyRequests {
		return []domain.Record{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourceS2, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceS2, "failed to read response", err)
	}

	var res s2Response
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewUpstreamError(domain.SourceS2, "failed to parse response", err)
	}

	records := make([]domain.Record, 0, len(res.Data))
	for _, paper := range res.Data {
		if paper.Title == "" {
			continue
		}
		records = append(records, s.toRecord(paper))
	}
	return records, nil
}

var systematicRe = regexp.MustCompile(`(?i)systematic`)

// classifyS2 maps Semantic Scholar publicationTypes to an evidence level,
// falling back to the title cascade when the types are uninformative. All
// tokens are scanned first so the strongest design wins regardless of
// token order.
func classifyS2(pubTypes []string, title string) domain.EvidenceLevel {
	var hasMeta, hasTrial, hasCase, hasReview bool
	for _, t := range pubTypes {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "metaanalysis", "meta-analysis":
			hasMeta = true
		case "clinicaltrial", "clinical trial":
			hasTrial = true
		case "casereport", "case report":
			hasCase = true
		case "review":
			hasReview = true
		}
	}
	switch {
	case hasMeta:
		return domain.LevelSRMA
	case hasReview && systematicRe.MatchString(title):
		return domain.LevelSRMA
	case hasTrial:
		return domain.LevelClinicalTrial
	case hasCase:
		return domain.LevelCaseReport
	case hasReview:
		return domain.LevelReview
	}
	return domain.ClassifyTitle(title)
}

func (s *S2Client) toRecord(paper s2Paper) domain.Record {
	authors := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		authors = append(authors, a.Name)
	}

	doi := normalizeDOI(paper.ExternalIDs.DOI)
	title := stripMarkup(paper.Title)

	return newRecord(domain.Record{
		ID:            paper.PaperID,
		Title:         title,
		Authors:       capAuthors(authors),
		Journal:       paper.Venue,
		Year:          paper.Year,
		PubTypes:      paper.PublicationTypes,
		EvidenceLevel: classifyS2(paper.PublicationTypes, title),
		DOI:           doi,
		URL:           canonicalURL(paper.ExternalIDs.PubMed, doi, paper.URL),
		Citations:     paper.CitationCount,
	}, domain.SourceS2)
}
