// Package external contains the HTTP clients for the six bibliographic
// sources, the translation and MeSH endpoints, and the generative-model
// proxy, plus the circuit-breaker wrapper that guards them.
package external

import (
	"html"
	"regexp"
	"strings"

	"github.com/medlit-search-server/internal/domain"
)

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
)

// stripMarkup expands CDATA sections, removes every <…> span, and decodes
// HTML entities. Deliberately approximate; the upstream feeds are narrow
// and predictable.
func stripMarkup(s string) string {
	s = cdataRe.ReplaceAllString(s, "$1")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// capAuthors truncates an author list to the five displayed names.
func capAuthors(authors []string) []string {
	out := make([]string, 0, 5)
	for _, a := range authors {
		if a = strings.TrimSpace(a); a == "" {
			continue
		}
		out = append(out, a)
		if len(out) == 5 {
			break
		}
	}
	return out
}

var yearRe = regexp.MustCompile(`\d{4}`)

// extractYear pulls the first 4-digit run out of a free-form date string.
// Returns 0 when none is found.
func extractYear(dateStr string) int {
	m := yearRe.FindString(dateStr)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}

var doiURLPrefixRe = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)

// normalizeDOI lowercases a DOI and strips any doi.org URL prefix.
func normalizeDOI(doi string) string {
	return strings.ToLower(doiURLPrefixRe.ReplaceAllString(strings.TrimSpace(doi), ""))
}

// canonicalURL picks the record link: a PubMed URL when the PMID is known,
// else a DOI URL, else the source-native link.
func canonicalURL(pmid, doi, native string) string {
	if pmid != "" {
		return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
	}
	if doi != "" {
		return "https://doi.org/" + doi
	}
	return native
}

// newRecord delegates to domain.NewRecord so every adapter creates records
// with FoundIn seeded from the source.
func newRecord(r domain.Record, source domain.SourceName) domain.Record {
	return domain.NewRecord(r, source)
}
