package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/data"
	"github.com/medlit-search-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubSource serves one distinct record per call and records every query it
// received. Safe under the concurrent fan-out.
type stubSource struct {
	mu      sync.Mutex
	source  domain.SourceName
	queries []string
	err     error
}

func (s *stubSource) record(query string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	n := len(s.queries)
	return []domain.Record{domain.NewRecord(domain.Record{
		ID:            fmt.Sprintf("%s-%d", s.source, n),
		Title:         fmt.Sprintf("Distinct result %d from source %s", n, s.source),
		Year:          2020,
		EvidenceLevel: domain.LevelOther,
	}, s.source)}, nil
}

func (s *stubSource) SearchParts(_ context.Context, parts []string) ([]domain.Record, error) {
	query := ""
	for i, p := range parts {
		if i > 0 {
			query += " AND "
		}
		query += p
	}
	return s.record(query)
}

func (s *stubSource) SearchQuery(_ context.Context, query string) ([]domain.Record, error) {
	return s.record(query)
}

func (s *stubSource) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.queries...)
}

// stubTranslator maps inputs to fixed outputs; anything unmapped fails.
type stubTranslator struct {
	translations map[string]string
}

func (s *stubTranslator) Translate(_ context.Context, text, _, _ string) (string, bool) {
	out, ok := s.translations[text]
	return out, ok
}

type orchestratorFixture struct {
	pubmed, jstage, s2, openalex, cinii, epmc *stubSource
	orch                                      *Orchestrator
}

func newFixture(translations map[string]string) *orchestratorFixture {
	f := &orchestratorFixture{
		pubmed:   &stubSource{source: domain.SourcePubMed},
		jstage:   &stubSource{source: domain.SourceJStage},
		s2:       &stubSource{source: domain.SourceS2},
		openalex: &stubSource{source: domain.SourceOpenAlex},
		cinii:    &stubSource{source: domain.SourceCiNii},
		epmc:     &stubSource{source: domain.SourceEPMC},
	}
	sources := Sources{
		PubMed:   f.pubmed,
		JStage:   f.jstage,
		S2:       f.s2,
		OpenAlex: f.openalex,
		CiNii:    f.cinii,
		EPMC:     f.epmc,
	}
	synonyms := NewSynonymIndex(data.SynonymClasses, nil)
	local := NewLocalSearch(data.Guidelines, data.ClinicalQuestions)
	f.orch = NewOrchestrator(sources, &stubTranslator{translations: translations}, synonyms, local, testLogger())
	return f
}

// Plain English query: six tasks, one per source, all results kept.
func TestSearchFansOutToAllSources(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.orch.Search(context.Background(), SearchRequest{Q: "knee pain"})
	require.NoError(t, err)

	assert.Equal(t, "knee pain", resp.Query)
	assert.Equal(t, 6, resp.TotalCount)
	assert.Empty(t, resp.Sources.Errors)

	for _, src := range []*stubSource{f.pubmed, f.jstage, f.s2, f.openalex, f.cinii, f.epmc} {
		assert.Len(t, src.calls(), 1, "source %s should be queried once", src.source)
	}

	counts := resp.Sources.Counts
	for _, name := range []domain.SourceName{
		domain.SourcePubMed, domain.SourceJStage, domain.SourceS2,
		domain.SourceOpenAlex, domain.SourceCiNii, domain.SourceEPMC,
	} {
		assert.Equal(t, 1, counts[name])
	}
	assert.Nil(t, resp.Multilingual)
	assert.Nil(t, resp.PatientVoice)
}

// Japanese query with a usable translation: the English-only indexes get
// the translation, the bilingual ones both variants.
func TestSearchJapaneseDispatchPlan(t *testing.T) {
	f := newFixture(map[string]string{"脳卒中": "stroke"})

	resp, err := f.orch.Search(context.Background(), SearchRequest{Q: "脳卒中"})
	require.NoError(t, err)
	require.Empty(t, resp.Sources.Errors)

	assert.Equal(t, []string{"stroke"}, f.pubmed.calls())
	assert.Equal(t, []string{"stroke"}, f.s2.calls())
	assert.Equal(t, []string{"脳卒中"}, f.jstage.calls())
	assert.Equal(t, []string{"脳卒中"}, f.cinii.calls())
	assert.ElementsMatch(t, []string{"脳卒中", "stroke"}, f.openalex.calls())
	assert.ElementsMatch(t, []string{"脳卒中", "stroke"}, f.epmc.calls())

	// 8 tasks, each stub answers with a distinct record.
	assert.Equal(t, 8, resp.TotalCount)

	// Non-multilingual requests carry no translation envelope.
	assert.Nil(t, resp.Multilingual)
}

// Japanese query with translation unavailable: plain six-task plan on the
// original text.
func TestSearchJapaneseWithoutTranslation(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.orch.Search(context.Background(), SearchRequest{Q: "脳卒中"})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.TotalCount)
	assert.Equal(t, []string{"脳卒中"}, f.pubmed.calls())
	assert.Equal(t, []string{"脳卒中"}, f.openalex.calls())
}

// Multilingual search runs every source in both languages and reports the
// per-field translations.
func TestSearchMultilingualDispatchPlan(t *testing.T) {
	f := newFixture(map[string]string{"stroke": "脳卒中"})

	resp, err := f.orch.Search(context.Background(), SearchRequest{
		Disease:      "stroke",
		Multilingual: true,
	})
	require.NoError(t, err)

	for _, src := range []*stubSource{f.pubmed, f.jstage, f.s2, f.openalex, f.cinii, f.epmc} {
		assert.ElementsMatch(t, []string{"stroke", "脳卒中"}, src.calls(),
			"source %s should run in both languages", src.source)
	}
	assert.Equal(t, 12, resp.TotalCount)

	require.NotNil(t, resp.Multilingual)
	assert.Equal(t, map[string]string{"disease": "脳卒中"}, resp.Multilingual.Translated)
}

// A failing source lands in sources.errors and never aborts the rest.
func TestSearchPartialFailure(t *testing.T) {
	f := newFixture(nil)
	f.s2.err = domain.NewUpstreamStatusError(domain.SourceS2, 500)

	resp, err := f.orch.Search(context.Background(), SearchRequest{Q: "dysphagia"})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.TotalCount)
	require.Contains(t, resp.Sources.Errors, "s2")
	assert.Zero(t, resp.Sources.Counts[domain.SourceS2])
	assert.Equal(t, 1, resp.Sources.Counts[domain.SourcePubMed])
}

func TestSearchStructuredFieldsJoin(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.orch.Search(context.Background(), SearchRequest{
		Disease:   "stroke",
		Treatment: "exercise",
	})
	require.NoError(t, err)

	assert.Equal(t, "stroke exercise", resp.Query)
	assert.Equal(t, []string{"stroke AND exercise"}, f.pubmed.calls())
	assert.Equal(t, []string{"stroke exercise"}, f.jstage.calls())
}

func TestSearchRequiresQuery(t *testing.T) {
	f := newFixture(nil)

	_, err := f.orch.Search(context.Background(), SearchRequest{})
	var inputErr *domain.InputError
	assert.ErrorAs(t, err, &inputErr)
}

// Local guideline and CQ matches ride along with the federated results.
func TestSearchAttachesLocalMatches(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.orch.Search(context.Background(), SearchRequest{Q: "脳卒中"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.NationalGuidelines)
	assert.Positive(t, resp.NationalGuidelines[0].Score)
	assert.NotEmpty(t, resp.ClinicalQuestions)
}

func TestSearchPatientVoice(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.orch.Search(context.Background(), SearchRequest{
		Q:            "stroke recovery",
		PatientVoice: true,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.PatientVoice)
	for _, r := range resp.PatientVoice {
		assert.True(t, r.IsPatientVoice)
	}

	// The qualitative branch re-queries PubMed with the filter appended.
	calls := f.pubmed.calls()
	require.Len(t, calls, 2)
	var filtered []string
	for _, q := range calls {
		if strings.Contains(q, "qualitative research[pt]") {
			filtered = append(filtered, q)
		}
	}
	require.Len(t, filtered, 1, "expected one PubMed call carrying the qualitative filter")
	assert.Contains(t, filtered[0], "stroke AND recovery")

	// Europe PMC gets quoted qualitative phrases.
	epmcCalls := f.epmc.calls()
	require.Len(t, epmcCalls, 2)
}

func TestGroupedResultsBucketsAndSort(t *testing.T) {
	g := GroupedResults{}
	g.add(domain.Record{ID: "1", EvidenceLevel: domain.LevelRCT, Year: 2019})
	g.add(domain.Record{ID: "2", EvidenceLevel: domain.LevelRCT, Year: 2023})
	g.add(domain.Record{ID: "3", EvidenceLevel: domain.LevelRCT})
	g.add(domain.Record{ID: "4", EvidenceLevel: domain.LevelGuideline, Year: 2021})
	g.add(domain.Record{ID: "5", EvidenceLevel: "bogus", Year: 2020})
	g.sortBuckets()

	require.Len(t, g.RCT, 3)
	assert.Equal(t, "2", g.RCT[0].ID)
	assert.Equal(t, "1", g.RCT[1].ID)
	assert.Equal(t, "3", g.RCT[2].ID, "missing year sorts last")
	assert.Len(t, g.Guideline, 1)
	assert.Len(t, g.Other, 1, "unknown level lands in other")
}
