package domain

import (
	"regexp"
	"strings"
)

// ClassifyPubTypes maps raw publication-type tokens to an evidence level.
// Tokens are scanned in a fixed priority: the strongest matching study
// design wins regardless of token order.
func ClassifyPubTypes(pubTypes []string) EvidenceLevel {
	lowered := make([]string, 0, len(pubTypes))
	for _, t := range pubTypes {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(t)))
	}

	contains := func(sub string) bool {
		for _, t := range lowered {
			if strings.Contains(t, sub) {
				return true
			}
		}
		return false
	}
	equals := func(s string) bool {
		for _, t := range lowered {
			if t == s {
				return true
			}
		}
		return false
	}

	switch {
	case contains("practice guideline") || equals("guideline"):
		return LevelGuideline
	case contains("systematic review"):
		return LevelSRMA
	case contains("meta-analysis"):
		return LevelSRMA
	case contains("randomized controlled trial"):
		return LevelRCT
	case contains("clinical trial"):
		return LevelClinicalTrial
	case contains("observational") || contains("cohort") || contains("case-control"):
		return LevelObservational
	case contains("case report"):
		return LevelCaseReport
	case equals("review"):
		return LevelReview
	}
	return LevelOther
}

// titleRule is one tier of the title classification cascade. The English
// pattern runs against the lowercased title, the Japanese pattern against
// the raw title. Either may be nil.
type titleRule struct {
	level EvidenceLevel
	en    *regexp.Regexp
	ja    *regexp.Regexp
}

// titleCascade is evaluated top to bottom; the first matching tier wins.
// Tiers 8-10 and 12 recover study type from idiomatic Japanese phrasing
// because Japanese bibliographic titles rarely carry explicit design labels.
// The efficacy/effectiveness tier sits late because that vocabulary appears
// across every study design.
var titleCascade = []titleRule{
	{
		level: LevelGuideline,
		en:    regexp.MustCompile(`guideline|practice parameter|consensus statement|clinical recommendation`),
		ja:    regexp.MustCompile(`ガイドライン|推奨グレード`),
	},
	{
		level: LevelSRMA,
		en:    regexp.MustCompile(`systematic|meta[\s-]?analysis|umbrella review|scoping review`),
		ja:    regexp.MustCompile(`システマティック|メタアナリシス|メタ分析`),
	},
	{
		level: LevelRCT,
		en:    regexp.MustCompile(`randomiz|rct\b|controlled trial`),
		ja:    regexp.MustCompile(`ランダム化|無作為化?比較`),
	},
	{
		level: LevelClinicalTrial,
		en:    regexp.MustCompile(`clinical trial|intervention study|pilot study|feasibility`),
		ja:    regexp.MustCompile(`臨床試験|介入研究|パイロット`),
	},
	{
		level: LevelObservational,
		en:    regexp.MustCompile(`cohort|cross[\s-]?sectional|case[\s-]?control|registry|retrospectiv|prospectiv|epidemiolog|prevalence|incidence|survey|longitudinal`),
		ja:    regexp.MustCompile(`コホート|観察研究|横断研究|前向き|後ろ向き|追跡調査|縦断|症例対照|レジストリ|有病率|発生率|アンケート|質問紙`),
	},
	{
		level: LevelCaseReport,
		en:    regexp.MustCompile(`case report|case series`),
		ja:    regexp.MustCompile(`症例報告|症例検討|一例|1例|一症例|経験例`),
	},
	{
		level: LevelReview,
		en:    regexp.MustCompile(`review|overview|narrative`),
		ja:    regexp.MustCompile(`レビュー|総説|文献的考察|文献検討`),
	},
	{
		level: LevelObservational,
		ja:    regexp.MustCompile(`についての検討|に関する検討|の検討|因子の検討|要因.{0,4}検討|発生要因|に関する研究|に関する調査|の実態調査|解析|分析した|を分析|多変量|回帰|統計`),
	},
	{
		level: LevelReview,
		ja:    regexp.MustCompile(`の現状と課題|現状と展望|の動向|の概要|の概説|の紹介|最新の|特集|考え方と実際|の実際`),
	},
	{
		level: LevelCaseReport,
		ja:    regexp.MustCompile(`の報告|について報告|を報告|を経験`),
	},
	{
		level: LevelClinicalTrial,
		en:    regexp.MustCompile(`efficacy|effectiveness|comparison|outcome`),
		ja:    regexp.MustCompile(`効果|有効性|比較検討|治療成績`),
	},
	{
		level: LevelObservational,
		ja:    regexp.MustCompile(`影響|予後|関連|関与|相関|関係`),
	},
}

// ClassifyTitle classifies a record by its title when publication-type
// metadata is missing or uninformative. Falls through to LevelOther.
func ClassifyTitle(title string) EvidenceLevel {
	lowered := strings.ToLower(title)
	for _, rule := range titleCascade {
		if rule.en != nil && rule.en.MatchString(lowered) {
			return rule.level
		}
		if rule.ja != nil && rule.ja.MatchString(title) {
			return rule.level
		}
	}
	return LevelOther
}

// Classify applies the layered rule cascade: publication-type metadata
// first, title heuristics when the metadata yields nothing better than
// LevelOther.
func Classify(pubTypes []string, title string) EvidenceLevel {
	if level := ClassifyPubTypes(pubTypes); level != LevelOther {
		return level
	}
	return ClassifyTitle(title)
}
