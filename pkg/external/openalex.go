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

// OpenAlexClient searches the OpenAlex open scholarly graph.
type OpenAlexClient struct {
	baseURL    string
	email      string
	maxResults int
	httpClient *http.Client
}

// NewOpenAlexClient creates an OpenAlex client. An email, when configured,
// joins the polite pool.
func NewOpenAlexClient(cfg domain.SourceConfig) *OpenAlexClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openalex.org/"
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 25
	}
	return &OpenAlexClient{
		baseURL:    cfg.BaseURL,
		email:      cfg.Email,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type openAlexWork struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	PublicationYear int    `json:"publication_year"`
	DOI             string `json:"doi"`
	Type            string `json:"type"`
	CitedByCount    *int   `json:"cited_by_count"`
	Language        string `json:"language"`
	PrimaryLocation struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	Authorships []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	IDs struct {
		PMID string `json:"pmid"`
	} `json:"ids"`
}

type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

// SearchQuery runs a works search against OpenAlex.
func (o *OpenAlexClient) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", o.maxResults)},
	}
	if o.email != "" {
		params.Set("mailto", o.email)
	}
	fullURL := fmt.Sprintf("%sworks?%s", o.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceOpenAlex, "failed to create request", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceOpenAlex, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourceOpenAlex, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceOpenAlex, "failed to read response", err)
	}

	var res openAlexResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewUpstreamError(domain.SourceOpenAlex, "failed to parse response", err)
	}

	records := make([]domain.Record, 0, len(res.Results))
	for _, work := range res.Results {
		if work.DisplayName == "" {
			continue
		}
		records = append(records, o.toRecord(work))
	}
	return records, nil
}

// systematicTitleRe catches systematic/meta phrasing in either script so a
// bare "review" type can be upgraded to sr_ma.
var systematicTitleRe = regexp.MustCompile(`(?i)systematic|meta[\s-]?analysis|システマティック|メタアナリシス|メタ分析`)

func classifyOpenAlex(workType, title string) domain.EvidenceLevel {
	if workType == "review" {
		if systematicTitleRe.MatchString(title) {
			return domain.LevelSRMA
		}
		return domain.LevelReview
	}
	return domain.ClassifyTitle(title)
}

func (o *OpenAlexClient) toRecord(work openAlexWork) domain.Record {
	authors := make([]string, 0, len(work.Authorships))
	for _, a := range work.Authorships {
		authors = append(authors, a.Author.DisplayName)
	}

	doi := normalizeDOI(work.DOI)
	title := stripMarkup(work.DisplayName)
	pmid := strings.TrimPrefix(work.IDs.PMID, "https://pubmed.ncbi.nlm.nih.gov/")
	pmid = strings.TrimSuffix(pmid, "/")

	var pubTypes []string
	if work.Type != "" {
		pubTypes = []string{work.Type}
	}

	return newRecord(domain.Record{
		ID:            work.ID,
		Title:         title,
		Authors:       capAuthors(authors),
		Journal:       work.PrimaryLocation.Source.DisplayName,
		Year:          work.PublicationYear,
		PubTypes:      pubTypes,
		EvidenceLevel: classifyOpenAlex(work.Type, title),
		DOI:           doi,
		URL:           canonicalURL(pmid, doi, work.ID),
		Citations:     work.CitedByCount,
		Language:      work.Language,
	}, domain.SourceOpenAlex)
}
