package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medlit-search-server/internal/domain"
)

var (
	doiPrefixRe  = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)
	nonTitleRe   = regexp.MustCompile(`[^\w\s\p{Hiragana}\p{Katakana}\p{Han}]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeDOI lowercases a DOI and strips any doi.org URL prefix.
func NormalizeDOI(doi string) string {
	return strings.ToLower(doiPrefixRe.ReplaceAllString(strings.TrimSpace(doi), ""))
}

// NormalizeTitle lowercases a title, removes every character outside word
// characters, whitespace and CJK ranges, collapses whitespace, and trims.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonTitleRe.ReplaceAllString(t, "")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// DedupKey is the deterministic cross-source identity of a record: the
// normalized DOI when present, else normalized title plus year when the
// title is long enough to be distinctive, else the adapter-scoped id.
func DedupKey(r domain.Record) string {
	if doi := NormalizeDOI(r.DOI); doi != "" {
		return "doi:" + doi
	}
	if title := NormalizeTitle(r.Title); utf8.RuneCountInString(title) > 10 {
		year := "?"
		if r.Year != 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		return "t:" + title + ":" + year
	}
	return "id:" + r.ID
}

// Reconciler deduplicates records across sources and merges complementary
// fields. Merge is commutative in everything except FoundIn ordering and
// the source credited in Counts, both of which follow first insertion.
type Reconciler struct {
	order   []string
	byKey   map[string]*domain.Record
	credits map[string]domain.SourceName
}

// NewReconciler creates an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		byKey:   make(map[string]*domain.Record),
		credits: make(map[string]domain.SourceName),
	}
}

// Add merges one record into the set.
func (rc *Reconciler) Add(r domain.Record) {
	key := DedupKey(r)
	existing, ok := rc.byKey[key]
	if !ok {
		clone := r
		rc.byKey[key] = &clone
		rc.order = append(rc.order, key)
		rc.credits[key] = r.Source
		return
	}
	merge(existing, r)
}

// AddAll merges a batch of records.
func (rc *Reconciler) AddAll(records []domain.Record) {
	for _, r := range records {
		rc.Add(r)
	}
}

// Records returns the merged records in first-insertion order.
func (rc *Reconciler) Records() []domain.Record {
	out := make([]domain.Record, 0, len(rc.order))
	for _, key := range rc.order {
		out = append(out, *rc.byKey[key])
	}
	return out
}

// Counts credits each merged record once, to the source of the first
// record that occupied its dedup key. FoundIn carries the full provenance.
func (rc *Reconciler) Counts() map[domain.SourceName]int {
	counts := make(map[domain.SourceName]int)
	for _, key := range rc.order {
		counts[rc.credits[key]]++
	}
	return counts
}

func isPubMedURL(u string) bool {
	return strings.Contains(u, "pubmed.ncbi.nlm.nih.gov")
}

// merge folds the incoming record into the existing representative.
func merge(existing *domain.Record, incoming domain.Record) {
	if incoming.EvidenceLevel.Better(existing.EvidenceLevel) {
		existing.EvidenceLevel = incoming.EvidenceLevel
	}
	if incoming.Citations != nil {
		if existing.Citations == nil || *incoming.Citations > *existing.Citations {
			c := *incoming.Citations
			existing.Citations = &c
		}
	}
	if existing.DOI == "" {
		existing.DOI = incoming.DOI
	}
	if existing.Journal == "" {
		existing.Journal = incoming.Journal
	}
	if existing.Year == 0 {
		existing.Year = incoming.Year
	}
	if existing.Language == "" {
		existing.Language = incoming.Language
	}
	if len(incoming.Authors) > len(existing.Authors) {
		existing.Authors = incoming.Authors
	}
	if isPubMedURL(incoming.URL) && !isPubMedURL(existing.URL) {
		existing.URL = incoming.URL
	}
	existing.PubTypes = unionStrings(existing.PubTypes, incoming.PubTypes)
	existing.FoundIn = unionSources(existing.FoundIn, incoming.FoundIn)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := a
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func unionSources(a, b []domain.SourceName) []domain.SourceName {
	seen := make(map[domain.SourceName]bool, len(a))
	out := a
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
