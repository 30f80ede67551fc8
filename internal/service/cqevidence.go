package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
)

var (
	cqPrefixRe   = regexp.MustCompile(`^(?:CQ|Q)\d+[\s.．:：]*`)
	katakanaRe   = regexp.MustCompile(`[ァ-ヶー]{2,}`)
	kanjiRe      = regexp.MustCompile(`\p{Han}{2,}`)
	latinTokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9-]+`)
	asciiPunctRe = regexp.MustCompile(`[!-/:-@\[-` + "`" + `{-~]`)
)

// kanjiStopList drops non-informative kanji compounds that appear in
// almost every recommendation sentence.
var kanjiStopList = map[string]bool{
	"患者": true, "対象": true, "効果": true, "推奨": true, "治療": true,
	"方法": true, "必要": true, "可能": true, "場合": true, "実施": true,
	"使用": true, "併用": true, "有効": true, "改善": true, "評価": true,
}

// englishStopList is the closed stop-list applied to English CQ text.
var englishStopList = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "of": true,
	"in": true, "for": true, "to": true, "with": true, "on": true, "and": true,
	"or": true, "what": true, "which": true, "should": true, "does": true,
	"do": true, "how": true, "when": true, "can": true, "be": true, "by": true,
	"at": true, "as": true, "from": true, "patient": true, "patients": true,
	"recommended": true, "effective": true, "use": true, "using": true,
}

// therapyLexicon is a small curated JA→EN fallback for common therapy and
// disease terms, used when neither kw nor the synonym index yields an
// English query term.
var therapyLexicon = map[string]string{
	"リハビリテーション": "rehabilitation",
	"リハビリ":      "rehabilitation",
	"運動療法":      "exercise therapy",
	"薬物療法":      "pharmacotherapy",
	"理学療法":      "physical therapy",
	"作業療法":      "occupational therapy",
	"認知行動療法":    "cognitive behavioral therapy",
	"嚥下訓練":      "swallowing training",
	"栄養療法":      "nutrition therapy",
	"手術":        "surgery",
	"脳卒中":       "stroke",
	"脳梗塞":       "cerebral infarction",
	"糖尿病":       "diabetes",
	"高血圧":       "hypertension",
	"心不全":       "heart failure",
	"認知症":       "dementia",
	"腰痛":        "low back pain",
	"転倒":        "fall",
	"骨折":        "fracture",
	"嚥下障害":      "dysphagia",
}

// ExtractCQKeywords pulls up to three Japanese or four English search
// terms out of a clinical-question sentence. Japanese extraction keeps
// katakana runs, kanji compounds (with trailing 患者/症例 stripped) and
// embedded Latin acronyms; English extraction splits on whitespace after
// removing ASCII punctuation and drops stop words.
func ExtractCQKeywords(q string) []string {
	q = strings.TrimSpace(cqPrefixRe.ReplaceAllString(strings.TrimSpace(q), ""))
	if q == "" {
		return nil
	}

	if domain.IsJapanese(q) {
		return extractJapaneseKeywords(q)
	}
	return extractEnglishKeywords(q)
}

func extractJapaneseKeywords(q string) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(t string) {
		if t == "" || len(terms) >= 3 || seen[t] || kanjiStopList[t] {
			return
		}
		seen[t] = true
		terms = append(terms, t)
	}

	for _, m := range katakanaRe.FindAllString(q, -1) {
		add(m)
	}
	for _, m := range kanjiRe.FindAllString(q, -1) {
		m = strings.TrimSuffix(m, "患者")
		m = strings.TrimSuffix(m, "症例")
		if len([]rune(m)) >= 2 {
			add(m)
		}
	}
	for _, m := range latinTokenRe.FindAllString(q, -1) {
		add(m)
	}
	return terms
}

func extractEnglishKeywords(q string) []string {
	q = asciiPunctRe.ReplaceAllString(q, " ")
	var terms []string
	seen := make(map[string]bool)
	for _, field := range strings.Fields(q) {
		key := strings.ToLower(field)
		if englishStopList[key] || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, field)
		if len(terms) >= 4 {
			break
		}
	}
	return terms
}

// CQEvidence runs a focused guideline/SR/MA/RCT query against the primary
// biomedical index for one clinical question.
type CQEvidence struct {
	pubmed   PartsSearcher
	synonyms *SynonymIndex
	logger   *logrus.Logger
}

// NewCQEvidence wires the CQ-evidence service.
func NewCQEvidence(pubmed PartsSearcher, synonyms *SynonymIndex, logger *logrus.Logger) *CQEvidence {
	return &CQEvidence{pubmed: pubmed, synonyms: synonyms, logger: logger}
}

// CQEvidenceResult is the endpoint payload: the records found, the
// keywords actually queried, and the PubMed term that was issued.
type CQEvidenceResult struct {
	Results  []domain.Record `json:"results"`
	Keywords []string        `json:"keywords"`
	Query    string          `json:"query,omitempty"`
}

// Search extracts keywords from the question (preferring explicit kw when
// supplied), promotes Japanese-only terms to English where possible, and
// returns up to five high-evidence records.
func (c *CQEvidence) Search(ctx context.Context, question, kw string) (*CQEvidenceResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewInputError("q", "question text is required")
	}

	keywords := ExtractCQKeywords(question)
	if kw != "" {
		var supplied []string
		for _, t := range strings.Split(kw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				supplied = append(supplied, t)
			}
			if len(supplied) >= 4 {
				break
			}
		}
		if len(supplied) > 0 {
			keywords = supplied
		}
	} else {
		keywords = c.promoteToEnglish(keywords)
	}

	if len(keywords) == 0 {
		return &CQEvidenceResult{Results: []domain.Record{}, Keywords: []string{}}, nil
	}

	query := buildCQQuery(keywords)
	c.logger.WithFields(logrus.Fields{
		"keywords": keywords,
		"query":    query,
	}).Debug("Running CQ evidence search")

	records, err := c.pubmed.SearchParts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("cq evidence search failed: %w", err)
	}
	if len(records) > 5 {
		records = records[:5]
	}
	return &CQEvidenceResult{Results: records, Keywords: keywords, Query: query}, nil
}

// promoteToEnglish swaps Japanese-only keywords for English equivalents,
// first through the synonym index, then through the curated lexicon.
// Terms with no equivalent stay as-is.
func (c *CQEvidence) promoteToEnglish(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, term := range keywords {
		if !domain.IsJapanese(term) {
			out = append(out, term)
			continue
		}
		if en := c.englishSynonym(term); en != "" {
			out = append(out, en)
			continue
		}
		if en, ok := therapyLexicon[term]; ok {
			out = append(out, en)
			continue
		}
		out = append(out, term)
	}
	return out
}

func (c *CQEvidence) englishSynonym(term string) string {
	for _, member := range c.synonyms.Lookup(term) {
		if !domain.IsJapanese(member) {
			return member
		}
	}
	return ""
}

// buildCQQuery restricts the query to guideline-grade publication types.
func buildCQQuery(keywords []string) string {
	return fmt.Sprintf("(%s) AND (systematic review[pt] OR meta-analysis[pt] OR randomized controlled trial[pt])",
		strings.Join(keywords, " AND "))
}
