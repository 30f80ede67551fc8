package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/medlit-search-server/internal/domain"
)

// PubMedClient searches NCBI PubMed through the E-utilities two-step flow:
// esearch for PMIDs, esummary for the summaries.
type PubMedClient struct {
	baseURL    string
	apiKey     string
	email      string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewPubMedClient creates a PubMed E-utilities client.
func NewPubMedClient(cfg domain.SourceConfig) *PubMedClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 3 // NCBI allows 3 req/s without an API key
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 50
	}
	return &PubMedClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		email:      cfg.Email,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryAuthor struct {
	Name string `json:"name"`
}

type esummaryArticleID struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

type esummaryDoc struct {
	UID        string              `json:"uid"`
	Title      string              `json:"title"`
	Authors    []esummaryAuthor    `json:"authors"`
	Source     string              `json:"source"`
	PubDate    string              `json:"pubdate"`
	PubType    []string            `json:"pubtype"`
	ArticleIDs []esummaryArticleID `json:"articleids"`
	Lang       []string            `json:"lang"`
}

// SearchParts joins the query parts with " AND " and runs the two-step
// esearch/esummary flow, returning normalized records.
func (p *PubMedClient) SearchParts(ctx context.Context, parts []string) ([]domain.Record, error) {
	term := strings.Join(parts, " AND ")
	if strings.TrimSpace(term) == "" {
		return []domain.Record{}, nil
	}

	pmids, err := p.search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return []domain.Record{}, nil
	}
	return p.summaries(ctx, pmids)
}

func (p *PubMedClient) search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmode": {"json"},
		"retmax":  {fmt.Sprintf("%d", p.maxResults)},
		"sort":    {"relevance"},
	}
	body, err := p.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var res esearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "failed to parse esearch response", err)
	}
	return res.ESearchResult.IDList, nil
}

func (p *PubMedClient) summaries(ctx context.Context, pmids []string) ([]domain.Record, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"json"},
	}
	body, err := p.get(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	// The esummary result object is keyed by PMID next to a "uids" list,
	// so the docs decode individually.
	var envelope struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "failed to parse esummary response", err)
	}

	var uids []string
	if raw, ok := envelope.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, domain.NewUpstreamError(domain.SourcePubMed, "failed to parse esummary uid list", err)
		}
	}

	records := make([]domain.Record, 0, len(uids))
	for _, uid := range uids {
		raw, ok := envelope.Result[uid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		records = append(records, p.toRecord(doc))
	}
	return records, nil
}

func (p *PubMedClient) toRecord(doc esummaryDoc) domain.Record {
	authors := make([]string, 0, len(doc.Authors))
	for _, a := range doc.Authors {
		authors = append(authors, a.Name)
	}

	doi := ""
	for _, id := range doc.ArticleIDs {
		if id.IDType == "doi" {
			doi = normalizeDOI(id.Value)
			break
		}
	}

	title := stripMarkup(doc.Title)
	lang := ""
	if len(doc.Lang) > 0 {
		lang = doc.Lang[0]
	}

	return newRecord(domain.Record{
		ID:            doc.UID,
		Title:         title,
		Authors:       capAuthors(authors),
		Journal:       doc.Source,
		Year:          extractYear(doc.PubDate),
		PubTypes:      doc.PubType,
		EvidenceLevel: domain.Classify(doc.PubType, title),
		DOI:           doi,
		URL:           "https://pubmed.ncbi.nlm.nih.gov/" + doc.UID + "/",
		Language:      lang,
	}, domain.SourcePubMed)
}

func (p *PubMedClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "rate wait cancelled", err)
	}
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}
	if p.email != "" {
		params.Set("email", p.email)
	}

	fullURL := fmt.Sprintf("%s%s?%s", p.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "failed to create request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourcePubMed, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourcePubMed, "failed to read response", err)
	}
	return body, nil
}
