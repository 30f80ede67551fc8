package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/medlit-search-server/internal/domain"
)

// PartsSearcher searches a source that accepts query parts and joins them
// itself (the primary biomedical index).
type PartsSearcher interface {
	SearchParts(ctx context.Context, parts []string) ([]domain.Record, error)
}

// QuerySearcher searches a source that takes one query string.
type QuerySearcher interface {
	SearchQuery(ctx context.Context, query string) ([]domain.Record, error)
}

// Translator translates a short string between two-letter language codes.
// The boolean is false when translation failed or produced nothing usable;
// translation failure always degrades silently.
type Translator interface {
	Translate(ctx context.Context, text, src, tgt string) (string, bool)
}

// Sources bundles the six external adapters handed to the orchestrator.
type Sources struct {
	PubMed   PartsSearcher
	JStage   QuerySearcher
	S2       QuerySearcher
	OpenAlex QuerySearcher
	CiNii    QuerySearcher
	EPMC     QuerySearcher
}

// SearchRequest is the parsed input of /api/search.
type SearchRequest struct {
	Q            string
	Disease      string
	Treatment    string
	Topic        string
	Multilingual bool
	PatientVoice bool
}

// MultilingualInfo exposes the per-field translations when the client
// asked for a multilingual search.
type MultilingualInfo struct {
	Translated map[string]string `json:"translated"`
}

// SourceReport carries per-source success counts and the first error
// observed per source label.
type SourceReport struct {
	Counts map[domain.SourceName]int `json:"counts"`
	Errors map[string]string         `json:"errors,omitempty"`
}

// GroupedResults buckets reconciled records by evidence level in the fixed
// display order. Struct fields keep the JSON key order stable.
type GroupedResults struct {
	Guideline     []domain.Record `json:"guideline"`
	SRMA          []domain.Record `json:"sr_ma"`
	RCT           []domain.Record `json:"rct"`
	ClinicalTrial []domain.Record `json:"clinical_trial"`
	Observational []domain.Record `json:"observational"`
	CaseReport    []domain.Record `json:"case_report"`
	Review        []domain.Record `json:"review"`
	Other         []domain.Record `json:"other"`
}

func (g *GroupedResults) bucket(level domain.EvidenceLevel) *[]domain.Record {
	switch level {
	case domain.LevelGuideline:
		return &g.Guideline
	case domain.LevelSRMA:
		return &g.SRMA
	case domain.LevelRCT:
		return &g.RCT
	case domain.LevelClinicalTrial:
		return &g.ClinicalTrial
	case domain.LevelObservational:
		return &g.Observational
	case domain.LevelCaseReport:
		return &g.CaseReport
	case domain.LevelReview:
		return &g.Review
	default:
		return &g.Other
	}
}

func (g *GroupedResults) add(r domain.Record) {
	b := g.bucket(r.EvidenceLevel)
	*b = append(*b, r)
}

// sortBuckets orders every bucket by descending year; a missing year sorts
// as zero. Empty buckets become empty slices so they serialize as [].
func (g *GroupedResults) sortBuckets() {
	for _, b := range []*[]domain.Record{
		&g.Guideline, &g.SRMA, &g.RCT, &g.ClinicalTrial,
		&g.Observational, &g.CaseReport, &g.Review, &g.Other,
	} {
		if *b == nil {
			*b = []domain.Record{}
			continue
		}
		records := *b
		sort.SliceStable(records, func(i, j int) bool { return records[i].Year > records[j].Year })
	}
}

// SearchResponse is the /api/search envelope.
type SearchResponse struct {
	Query              string                  `json:"query"`
	Multilingual       *MultilingualInfo       `json:"multilingual,omitempty"`
	TotalCount         int                     `json:"totalCount"`
	Results            GroupedResults          `json:"results"`
	NationalGuidelines []domain.GuidelineMatch `json:"nationalGuidelines"`
	ClinicalQuestions  []domain.CQMatch        `json:"clinicalQuestions"`
	Sources            SourceReport            `json:"sources"`
	PatientVoice       []domain.Record         `json:"patientVoice,omitempty"`
}

// Orchestrator fans a clinical query out to the six bibliographic sources,
// reconciles the answers, and appends local guideline/CQ matches.
type Orchestrator struct {
	sources    Sources
	translator Translator
	synonyms   *SynonymIndex
	local      *LocalSearch
	logger     *logrus.Logger
}

// NewOrchestrator wires the search orchestrator.
func NewOrchestrator(sources Sources, translator Translator, synonyms *SynonymIndex, local *LocalSearch, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		sources:    sources,
		translator: translator,
		synonyms:   synonyms,
		local:      local,
		logger:     logger,
	}
}

// searchTask is one outbound call in the fan-out. Tasks for the same
// source share a label so sources.errors keys stay stable across plans.
type searchTask struct {
	label domain.SourceName
	run   func(ctx context.Context) ([]domain.Record, error)
}

type taskResult struct {
	label   domain.SourceName
	records []domain.Record
	err     error
}

// Search runs the full pipeline for one request. Per-source failures are
// isolated: they land in sources.errors and never abort the orchestration.
func (o *Orchestrator) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	parts, fieldParts, err := parseParts(req)
	if err != nil {
		return nil, err
	}

	joined := strings.Join(parts, " ")
	isJa := domain.IsJapanese(joined)
	expandedParts := o.synonyms.Expand(parts)

	var translatedParts []string
	var fieldTranslations map[string]string
	if req.Multilingual || isJa {
		src, tgt := "en", "ja"
		if isJa {
			src, tgt = "ja", "en"
		}
		translatedParts, fieldTranslations = o.translateParts(ctx, parts, fieldParts, src, tgt)
	}

	tasks := o.planTasks(parts, translatedParts, joined, isJa, req.Multilingual)
	o.logger.WithFields(logrus.Fields{
		"query":        joined,
		"japanese":     isJa,
		"multilingual": req.Multilingual,
		"tasks":        len(tasks),
	}).Info("Dispatching federated search")

	results := settleAll(ctx, tasks)

	reconciler := NewReconciler()
	errors := make(map[string]string)
	for _, res := range results {
		if res.err != nil {
			if _, seen := errors[string(res.label)]; !seen {
				errors[string(res.label)] = res.err.Error()
			}
			o.logger.WithFields(logrus.Fields{
				"source": res.label,
				"error":  res.err.Error(),
			}).Warn("Source search failed")
			continue
		}
		reconciler.AddAll(res.records)
	}

	merged := reconciler.Records()
	grouped := GroupedResults{}
	for _, r := range merged {
		grouped.add(r)
	}
	grouped.sortBuckets()

	resp := &SearchResponse{
		Query:              joined,
		TotalCount:         len(merged),
		Results:            grouped,
		NationalGuidelines: o.local.ScoreGuidelines(expandedParts, translatedParts),
		ClinicalQuestions:  o.local.ScoreQuestions(expandedParts, translatedParts),
		Sources: SourceReport{
			Counts: reconciler.Counts(),
			Errors: errors,
		},
	}
	if resp.NationalGuidelines == nil {
		resp.NationalGuidelines = []domain.GuidelineMatch{}
	}
	if resp.ClinicalQuestions == nil {
		resp.ClinicalQuestions = []domain.CQMatch{}
	}
	if req.Multilingual && len(fieldTranslations) > 0 {
		resp.Multilingual = &MultilingualInfo{Translated: fieldTranslations}
	}
	if req.PatientVoice {
		resp.PatientVoice = o.patientVoice(ctx, parts, translatedParts, joined, isJa)
	}
	return resp, nil
}

// parseParts splits q on whitespace, or falls back to the non-empty
// structured fields. fieldParts remembers which field each structured part
// came from, for the multilingual envelope.
func parseParts(req SearchRequest) (parts []string, fieldParts map[string]string, err error) {
	if q := strings.TrimSpace(req.Q); q != "" {
		return strings.Fields(q), nil, nil
	}
	fieldParts = make(map[string]string)
	for _, f := range []struct{ name, value string }{
		{"disease", req.Disease},
		{"treatment", req.Treatment},
		{"topic", req.Topic},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, v)
			fieldParts[v] = f.name
		}
	}
	if len(parts) == 0 {
		return nil, nil, domain.NewInputError("q", "provide q or at least one of disease, treatment, topic")
	}
	return parts, fieldParts, nil
}

// translateParts translates every part in parallel. Failed translations
// drop out; fieldTranslations keeps the per-field result for structured
// queries.
func (o *Orchestrator) translateParts(ctx context.Context, parts []string, fieldParts map[string]string, src, tgt string) ([]string, map[string]string) {
	type partResult struct {
		index int
		text  string
		ok    bool
	}

	results := make(chan partResult, len(parts))
	for i, part := range parts {
		go func(i int, part string) {
			text, ok := o.translator.Translate(ctx, part, src, tgt)
			results <- partResult{index: i, text: text, ok: ok}
		}(i, part)
	}

	translated := make([]string, len(parts))
	for range parts {
		res := <-results
		if res.ok {
			translated[res.index] = res.text
		}
	}

	var out []string
	fieldTranslations := make(map[string]string)
	for i, t := range translated {
		if t == "" {
			continue
		}
		out = append(out, t)
		if field, ok := fieldParts[parts[i]]; ok {
			fieldTranslations[field] = t
		}
	}
	return out, fieldTranslations
}

// planTasks builds the dispatch matrix. Exactly one plan applies:
//  1. Japanese non-multilingual query with a usable translation: the
//     English-only indexes get the translation, the Japanese-capable ones
//     the original, and OpenAlex/EPMC additionally the translation to
//     widen bilingual coverage.
//  2. Multilingual with a usable translation: every source runs twice.
//  3. Otherwise every source runs once with the original query.
func (o *Orchestrator) planTasks(parts, translatedParts []string, joined string, isJa, multilingual bool) []searchTask {
	translatedJoined := strings.Join(translatedParts, " ")
	hasTranslation := translatedJoined != ""

	partsTask := func(label domain.SourceName, s PartsSearcher, p []string) searchTask {
		return searchTask{label: label, run: func(ctx context.Context) ([]domain.Record, error) {
			return s.SearchParts(ctx, p)
		}}
	}
	queryTask := func(label domain.SourceName, s QuerySearcher, q string) searchTask {
		return searchTask{label: label, run: func(ctx context.Context) ([]domain.Record, error) {
			return s.SearchQuery(ctx, q)
		}}
	}

	switch {
	case isJa && !multilingual && hasTranslation:
		return []searchTask{
			partsTask(domain.SourcePubMed, o.sources.PubMed, translatedParts),
			queryTask(domain.SourceS2, o.sources.S2, translatedJoined),
			queryTask(domain.SourceJStage, o.sources.JStage, joined),
			queryTask(domain.SourceOpenAlex, o.sources.OpenAlex, joined),
			queryTask(domain.SourceCiNii, o.sources.CiNii, joined),
			queryTask(domain.SourceEPMC, o.sources.EPMC, joined),
			queryTask(domain.SourceOpenAlex, o.sources.OpenAlex, translatedJoined),
			queryTask(domain.SourceEPMC, o.sources.EPMC, translatedJoined),
		}
	case multilingual && hasTranslation:
		return []searchTask{
			partsTask(domain.SourcePubMed, o.sources.PubMed, parts),
			queryTask(domain.SourceJStage, o.sources.JStage, joined),
			queryTask(domain.SourceS2, o.sources.S2, joined),
			queryTask(domain.SourceOpenAlex, o.sources.OpenAlex, joined),
			queryTask(domain.SourceCiNii, o.sources.CiNii, joined),
			queryTask(domain.SourceEPMC, o.sources.EPMC, joined),
			partsTask(domain.SourcePubMed, o.sources.PubMed, translatedParts),
			queryTask(domain.SourceJStage, o.sources.JStage, translatedJoined),
			queryTask(domain.SourceS2, o.sources.S2, translatedJoined),
			queryTask(domain.SourceOpenAlex, o.sources.OpenAlex, translatedJoined),
			queryTask(domain.SourceCiNii, o.sources.CiNii, translatedJoined),
			queryTask(domain.SourceEPMC, o.sources.EPMC, translatedJoined),
		}
	default:
		return []searchTask{
			partsTask(domain.SourcePubMed, o.sources.PubMed, parts),
			queryTask(domain.SourceJStage, o.sources.JStage, joined),
			queryTask(domain.SourceS2, o.sources.S2, joined),
			queryTask(domain.SourceOpenAlex, o.sources.OpenAlex, joined),
			queryTask(domain.SourceCiNii, o.sources.CiNii, joined),
			queryTask(domain.SourceEPMC, o.sources.EPMC, joined),
		}
	}
}

// settleAll launches every task concurrently and waits for all of them,
// preserving per-task outcomes. Not fail-fast: one failure never cancels
// the siblings; cancelling ctx propagates into every outstanding call.
func settleAll(ctx context.Context, tasks []searchTask) []taskResult {
	results := make([]taskResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task searchTask) {
			defer wg.Done()
			records, err := task.run(ctx)
			results[i] = taskResult{label: task.label, records: records, err: err}
		}(i, task)
	}
	wg.Wait()
	return results
}

var qualitativeTermsEN = []string{
	"qualitative research",
	"patient experience",
	"lived experience",
	"quality of life",
	"patient reported outcome",
	"patient perspective",
}

var qualitativeTermsJA = []string{"質的研究", "患者の声", "療養体験", "生活の質"}

const pubmedQualitativeFilter = "(qualitative research[pt] OR patient experience[tw] OR lived experience[tw] OR quality of life[tw] OR patient reported outcome[tw] OR patient perspective[tw])"

// patientVoice is the second fan-out: qualitative-research filters against
// a subset of sources, reconciled separately and capped at 30 records.
// Failures here only log; the branch is best-effort.
func (o *Orchestrator) patientVoice(ctx context.Context, parts, translatedParts []string, joined string, isJa bool) []domain.Record {
	baseParts := parts
	if isJa && len(translatedParts) > 0 {
		baseParts = translatedParts
	}
	baseJoined := strings.Join(baseParts, " ")

	quoted := make([]string, 0, 4)
	for _, term := range qualitativeTermsEN[:4] {
		quoted = append(quoted, `"`+term+`"`)
	}
	epmcQuery := baseJoined + " AND (" + strings.Join(quoted, " OR ") + ")"

	tasks := []searchTask{
		{label: domain.SourcePubMed, run: func(ctx context.Context) ([]domain.Record, error) {
			return o.sources.PubMed.SearchParts(ctx, append(append([]string{}, baseParts...), pubmedQualitativeFilter))
		}},
		{label: domain.SourceEPMC, run: func(ctx context.Context) ([]domain.Record, error) {
			return o.sources.EPMC.SearchQuery(ctx, epmcQuery)
		}},
	}
	if isJa {
		jaQuery := joined + " " + qualitativeTermsJA[0]
		tasks = append(tasks,
			searchTask{label: domain.SourceJStage, run: func(ctx context.Context) ([]domain.Record, error) {
				return o.sources.JStage.SearchQuery(ctx, jaQuery)
			}},
			searchTask{label: domain.SourceCiNii, run: func(ctx context.Context) ([]domain.Record, error) {
				return o.sources.CiNii.SearchQuery(ctx, jaQuery)
			}},
		)
	}

	reconciler := NewReconciler()
	for _, res := range settleAll(ctx, tasks) {
		if res.err != nil {
			o.logger.WithFields(logrus.Fields{
				"source": res.label,
				"error":  res.err.Error(),
			}).Warn("Patient-voice source failed")
			continue
		}
		reconciler.AddAll(res.records)
	}

	records := reconciler.Records()
	if len(records) > 30 {
		records = records[:30]
	}
	for i := range records {
		records[i].IsPatientVoice = true
	}
	return records
}
