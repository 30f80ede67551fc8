package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/medlit-search-server/internal/domain"
)

// JStageClient searches the J-STAGE full-text index. The upstream answers
// with an Atom-like XML feed whose element nesting is loose, so the parser
// is regex-based over <entry> blocks rather than a schema-bound decoder.
type JStageClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewJStageClient creates a J-STAGE search client.
func NewJStageClient(cfg domain.SourceConfig) *JStageClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.jstage.jst.go.jp/searchapi/do"
	}
	if cfg.MaxResult == 0 {
		cfg.MaxResult = 25
	}
	return &JStageClient{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResult,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

var (
	entryRe          = regexp.MustCompile(`(?s)<entry>(.*?)</entry>`)
	articleTitleJaRe = regexp.MustCompile(`(?s)<article_title>.*?<ja>(.*?)</ja>`)
	bottomTitleRe    = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	articleLinkJaRe  = regexp.MustCompile(`(?s)<article_link>.*?<ja>(.*?)</ja>`)
	articleLinkEnRe  = regexp.MustCompile(`(?s)<article_link>.*?<en>(.*?)</en>`)
	linkHrefRe       = regexp.MustCompile(`<link[^>]*href="([^"]+)"`)
	authorsJaRe      = regexp.MustCompile(`(?s)<author>.*?<ja>(.*?)</ja>`)
	authorNameRe     = regexp.MustCompile(`(?s)<name>(.*?)</name>`)
	materialJaRe     = regexp.MustCompile(`(?s)<material_title>.*?<ja>(.*?)</ja>`)
	publicationRe    = regexp.MustCompile(`(?s)<prism:publicationName>(.*?)</prism:publicationName>`)
	pubyearRe        = regexp.MustCompile(`<pubyear>(\d{4})</pubyear>`)
	prismDOIRe       = regexp.MustCompile(`(?s)<prism:doi>(.*?)</prism:doi>`)
)

// SearchQuery runs a J-STAGE article search and parses the feed. Entries
// whose title comes out empty are dropped.
func (j *JStageClient) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	params := url.Values{
		"service": {"3"},
		"text":    {query},
		"count":   {fmt.Sprintf("%d", j.maxResults)},
	}
	fullURL := fmt.Sprintf("%s?%s", j.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceJStage, "failed to create request", err)
	}
	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceJStage, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamStatusError(domain.SourceJStage, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceJStage, "failed to read response", err)
	}

	return j.parseFeed(string(body)), nil
}

func (j *JStageClient) parseFeed(feed string) []domain.Record {
	var records []domain.Record
	for i, m := range entryRe.FindAllStringSubmatch(feed, -1) {
		entry := m[1]

		title := firstMatch(articleTitleJaRe, entry)
		if title == "" {
			title = firstMatch(bottomTitleRe, entry)
		}
		title = stripMarkup(title)
		if title == "" {
			continue
		}

		link := firstMatch(articleLinkJaRe, entry)
		if link == "" {
			link = firstMatch(articleLinkEnRe, entry)
		}
		if link == "" {
			link = firstMatch(linkHrefRe, entry)
		}
		link = stripMarkup(link)

		var authors []string
		if block := firstMatch(authorsJaRe, entry); block != "" {
			for _, nm := range authorNameRe.FindAllStringSubmatch(block, -1) {
				authors = append(authors, stripMarkup(nm[1]))
			}
		}

		journal := stripMarkup(firstMatch(materialJaRe, entry))
		if journal == "" {
			journal = stripMarkup(firstMatch(publicationRe, entry))
		}

		doi := normalizeDOI(firstMatch(prismDOIRe, entry))

		id := link
		if id == "" {
			id = fmt.Sprintf("jstage-%d", i)
		}

		records = append(records, newRecord(domain.Record{
			ID:            id,
			Title:         title,
			Authors:       capAuthors(authors),
			Journal:       journal,
			Year:          extractYear(firstMatch(pubyearRe, entry)),
			EvidenceLevel: domain.ClassifyTitle(title),
			DOI:           doi,
			URL:           canonicalURL("", doi, link),
			Language:      "ja",
		}, domain.SourceJStage))
	}
	return records
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
