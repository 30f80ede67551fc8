package service

import (
	"sort"
	"strings"

	"github.com/medlit-search-server/internal/domain"
)

// LocalSearch scores the embedded guideline and clinical-question corpora
// against expanded query terms. Pure computation over static data; it
// cannot fail.
type LocalSearch struct {
	guidelines []domain.Guideline
	questions  []domain.ClinicalQuestion
	byID       map[string]domain.Guideline
}

// NewLocalSearch wraps the static corpora for scoring and browsing.
func NewLocalSearch(guidelines []domain.Guideline, questions []domain.ClinicalQuestion) *LocalSearch {
	byID := make(map[string]domain.Guideline, len(guidelines))
	for _, g := range guidelines {
		byID[g.ID] = g
	}
	return &LocalSearch{guidelines: guidelines, questions: questions, byID: byID}
}

// Guideline returns the guideline for an ID.
func (l *LocalSearch) Guideline(id string) (domain.Guideline, error) {
	g, ok := l.byID[id]
	if !ok {
		return domain.Guideline{}, domain.ErrNotFound
	}
	return g, nil
}

// Guidelines returns the full registry.
func (l *LocalSearch) Guidelines() []domain.Guideline { return l.guidelines }

// Questions returns the full CQ registry.
func (l *LocalSearch) Questions() []domain.ClinicalQuestion { return l.questions }

// lowerTerms merges and lowercases the expanded and translated query terms.
func lowerTerms(expanded, translated []string) []string {
	terms := make([]string, 0, len(expanded)+len(translated))
	for _, t := range append(append([]string{}, expanded...), translated...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// scoreAgainst applies the shared scoring rule: +10 exact keyword match,
// +5 substring containment in either direction against a keyword, +3
// substring containment in the text field. Summed across all query terms.
func scoreAgainst(terms, keywords []string, text string) int {
	loweredKW := make([]string, len(keywords))
	for i, k := range keywords {
		loweredKW[i] = strings.ToLower(k)
	}
	loweredText := strings.ToLower(text)

	score := 0
	for _, term := range terms {
		for _, kw := range loweredKW {
			switch {
			case term == kw:
				score += 10
			case strings.Contains(kw, term) || strings.Contains(term, kw):
				score += 5
			}
		}
		if strings.Contains(loweredText, term) {
			score += 3
		}
	}
	return score
}

// ScoreGuidelines ranks guidelines by relevance to the query terms.
// Only matches with a positive score are returned, ordered by score
// descending then year descending.
func (l *LocalSearch) ScoreGuidelines(expanded, translated []string) []domain.GuidelineMatch {
	terms := lowerTerms(expanded, translated)
	var matches []domain.GuidelineMatch
	for _, g := range l.guidelines {
		if score := scoreAgainst(terms, g.Diseases, g.Title); score > 0 {
			matches = append(matches, domain.GuidelineMatch{Guideline: g, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Year > matches[j].Year
	})
	return matches
}

// ScoreQuestions ranks clinical questions the same way guidelines are
// ranked, with kw in the role of diseases and the question text in the
// role of the title. Parent guideline display fields are attached.
func (l *LocalSearch) ScoreQuestions(expanded, translated []string) []domain.CQMatch {
	terms := lowerTerms(expanded, translated)
	var matches []domain.CQMatch
	for _, cq := range l.questions {
		score := scoreAgainst(terms, cq.KW, cq.Q)
		if score <= 0 {
			continue
		}
		m := domain.CQMatch{ClinicalQuestion: cq, Score: score}
		if parent, ok := l.byID[cq.GID]; ok {
			m.GuidelineTitle = parent.Title
			m.GuidelineOrg = parent.Org
			m.GuidelineURL = parent.URL
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		gi, gj := l.byID[matches[i].GID], l.byID[matches[j].GID]
		return gi.Year > gj.Year
	})
	return matches
}

// Suggest returns up to limit autocomplete candidates drawn from CQ
// keywords and guideline disease names. Prefix matches sort first, then
// candidates order by ascending length.
func (l *LocalSearch) Suggest(q string, limit int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}

	seen := make(map[string]bool)
	var prefix, contains []string
	consider := func(term string) {
		key := strings.ToLower(term)
		if seen[key] {
			return
		}
		switch {
		case strings.HasPrefix(key, q):
			seen[key] = true
			prefix = append(prefix, term)
		case strings.Contains(key, q):
			seen[key] = true
			contains = append(contains, term)
		}
	}

	for _, cq := range l.questions {
		for _, kw := range cq.KW {
			consider(kw)
		}
	}
	for _, g := range l.guidelines {
		for _, d := range g.Diseases {
			consider(d)
		}
	}

	byLength := func(list []string) {
		sort.SliceStable(list, func(i, j int) bool { return len(list[i]) < len(list[j]) })
	}
	byLength(prefix)
	byLength(contains)

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CQGroup is one guideline with its clinical questions, for browsing.
type CQGroup struct {
	Guideline domain.Guideline          `json:"guideline"`
	CQs       []domain.ClinicalQuestion `json:"cqs"`
}

// GroupQuestions returns CQs grouped by guideline, optionally filtered by
// guideline category, in registry order.
func (l *LocalSearch) GroupQuestions(cat string) []CQGroup {
	var groups []CQGroup
	for _, g := range l.guidelines {
		if cat != "" && g.Cat != cat {
			continue
		}
		var cqs []domain.ClinicalQuestion
		for _, cq := range l.questions {
			if cq.GID == g.ID {
				cqs = append(cqs, cq)
			}
		}
		if len(cqs) > 0 {
			groups = append(groups, CQGroup{Guideline: g, CQs: cqs})
		}
	}
	return groups
}
