package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/domain"
)

func TestS2SearchQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stroke rehabilitation", r.URL.Query().Get("query"))
		w.Write([]byte(`{"data":[
			{"paperId":"p1","title":"Balance training: a meta-analysis","year":2021,"venue":"PTJ",
			 "citationCount":42,"publicationTypes":["MetaAnalysis"],
			 "authors":[{"name":"Lee J"}],
			 "externalIds":{"DOI":"10.5/abc","PubMed":"999"}},
			{"paperId":"p2","title":"","year":2020},
			{"paperId":"p3","title":"Gait speed in community-dwelling elders","year":2018,
			 "citationCount":0,"url":"https://www.semanticscholar.org/paper/p3"}
		]}`))
	}))
	defer ts.Close()

	client := NewS2Client(domain.SourceConfig{BaseURL: ts.URL + "/", Timeout: 2 * time.Second})
	records, err := client.SearchQuery(context.Background(), "stroke rehabilitation")
	require.NoError(t, err)
	require.Len(t, records, 2, "untitled papers are dropped")

	first := records[0]
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, domain.LevelSRMA, first.EvidenceLevel)
	require.NotNil(t, first.Citations)
	assert.Equal(t, 42, *first.Citations)
	assert.Equal(t, "10.5/abc", first.DOI)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/999/", first.URL, "PMID link preferred")

	second := records[1]
	require.NotNil(t, second.Citations)
	assert.Equal(t, 0, *second.Citations, "zero citations is a real count")
	assert.Equal(t, "https://www.semanticscholar.org/paper/p3", second.URL)
}

// 429 is a benign empty result, not an error.
func TestS2RateLimitedIsSoftEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewS2Client(domain.SourceConfig{BaseURL: ts.URL + "/", Timeout: time.Second})
	records, err := client.SearchQuery(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClassifyS2(t *testing.T) {
	tests := []struct {
		name     string
		pubTypes []string
		title    string
		expected domain.EvidenceLevel
	}{
		{"meta-analysis type", []string{"MetaAnalysis"}, "whatever", domain.LevelSRMA},
		{"systematic review via review type", []string{"Review"}, "A systematic review of gait training", domain.LevelSRMA},
		{"plain review type", []string{"Review"}, "Advances in stroke care", domain.LevelReview},
		{"clinical trial type", []string{"ClinicalTrial"}, "whatever", domain.LevelClinicalTrial},
		{"case report type", []string{"CaseReport"}, "whatever", domain.LevelCaseReport},
		{"meta-analysis beats earlier case report", []string{"CaseReport", "MetaAnalysis"}, "whatever", domain.LevelSRMA},
		{"systematic review beats earlier clinical trial", []string{"ClinicalTrial", "Review"}, "A systematic review of gait training", domain.LevelSRMA},
		{"plain review yields to clinical trial", []string{"Review", "ClinicalTrial"}, "Advances in stroke care", domain.LevelClinicalTrial},
		{"fallback to title", []string{"JournalArticle"}, "A randomized controlled trial of tai chi", domain.LevelRCT},
		{"nothing informative", nil, "Conference proceedings index", domain.LevelOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyS2(tt.pubTypes, tt.title))
		})
	}
}
