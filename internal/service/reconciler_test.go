package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNormalizeDOI(t *testing.T) {
	assert.Equal(t, "10.1/abc", NormalizeDOI("10.1/ABC"))
	assert.Equal(t, "10.1/abc", NormalizeDOI("https://doi.org/10.1/abc"))
	assert.Equal(t, "10.1/abc", NormalizeDOI("http://dx.doi.org/10.1/Abc "))
	assert.Equal(t, "", NormalizeDOI(""))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "exercise for knee oa a trial",
		NormalizeTitle("  Exercise for Knee OA: A Trial!  "))
	assert.Equal(t, "脳卒中後の嚥下障害", NormalizeTitle("脳卒中後の嚥下障害。"))
}

func TestDedupKey(t *testing.T) {
	withDOI := domain.Record{ID: "a", Title: "whatever this is", DOI: "10.1/ABC", Year: 2020}
	assert.Equal(t, "doi:10.1/abc", DedupKey(withDOI))

	longTitle := domain.Record{ID: "b", Title: "Exercise therapy for knee osteoarthritis", Year: 2021}
	assert.Equal(t, "t:exercise therapy for knee osteoarthritis:2021", DedupKey(longTitle))

	noYear := domain.Record{ID: "c", Title: "Exercise therapy for knee osteoarthritis"}
	assert.Equal(t, "t:exercise therapy for knee osteoarthritis:?", DedupKey(noYear))

	shortTitle := domain.Record{ID: "d", Title: "Editorial"}
	assert.Equal(t, "id:d", DedupKey(shortTitle))
}

// Records with the same DOI collapse to one, keeping the strongest evidence
// level regardless of arrival order.
func TestReconcilerMergesByDOI(t *testing.T) {
	rc := NewReconciler()
	rc.AddAll([]domain.Record{
		domain.NewRecord(domain.Record{ID: "1", Title: "Balance training trial", DOI: "10.1/abc", EvidenceLevel: domain.LevelReview}, domain.SourceS2),
		domain.NewRecord(domain.Record{ID: "2", Title: "Balance training trial", DOI: "10.1/ABC", EvidenceLevel: domain.LevelRCT}, domain.SourcePubMed),
		domain.NewRecord(domain.Record{ID: "3", Title: "Balance training trial", DOI: "https://doi.org/10.1/abc", EvidenceLevel: domain.LevelSRMA}, domain.SourceEPMC),
	})

	records := rc.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.LevelSRMA, records[0].EvidenceLevel)
	assert.ElementsMatch(t, []domain.SourceName{domain.SourceS2, domain.SourcePubMed, domain.SourceEPMC}, records[0].FoundIn)

	// Credit goes to the first occupant only.
	counts := rc.Counts()
	assert.Equal(t, map[domain.SourceName]int{domain.SourceS2: 1}, counts)
}

func TestReconcilerMergeRules(t *testing.T) {
	rc := NewReconciler()
	rc.Add(domain.NewRecord(domain.Record{
		ID: "s2-1", Title: "Early mobilization after stroke", DOI: "10.2/xyz",
		EvidenceLevel: domain.LevelOther,
		Authors:       []string{"Tanaka H"},
		Citations:     intPtr(12),
		URL:           "https://www.semanticscholar.org/paper/xyz",
	}, domain.SourceS2))
	rc.Add(domain.NewRecord(domain.Record{
		ID: "pm-1", Title: "Early mobilization after stroke", DOI: "10.2/xyz",
		EvidenceLevel: domain.LevelRCT,
		Authors:       []string{"Tanaka H", "Sato K"},
		Journal:       "Stroke",
		Year:          2022,
		Language:      "eng",
		Citations:     intPtr(5),
		PubTypes:      []string{"Randomized Controlled Trial"},
		URL:           "https://pubmed.ncbi.nlm.nih.gov/123/",
	}, domain.SourcePubMed))

	records := rc.Records()
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, domain.LevelRCT, r.EvidenceLevel)
	require.NotNil(t, r.Citations)
	assert.Equal(t, 12, *r.Citations, "max citation count wins")
	assert.Equal(t, "Stroke", r.Journal, "absent journal filled in")
	assert.Equal(t, 2022, r.Year, "absent year filled in")
	assert.Equal(t, "eng", r.Language)
	assert.Equal(t, []string{"Tanaka H", "Sato K"}, r.Authors, "longer author list wins")
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/123/", r.URL, "PubMed URL preferred")
	assert.Contains(t, r.PubTypes, "Randomized Controlled Trial")
}

func TestReconcilerZeroCitationsIsACount(t *testing.T) {
	rc := NewReconciler()
	rc.Add(domain.NewRecord(domain.Record{ID: "1", Title: "Long enough title for dedup", Citations: intPtr(0)}, domain.SourceS2))
	rc.Add(domain.NewRecord(domain.Record{ID: "2", Title: "Long enough title for dedup"}, domain.SourceOpenAlex))

	records := rc.Records()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Citations)
	assert.Equal(t, 0, *records[0].Citations)
}

func TestReconcilerDistinctRecordsStaySeparate(t *testing.T) {
	rc := NewReconciler()
	rc.Add(domain.NewRecord(domain.Record{ID: "1", Title: "Exercise therapy for knee osteoarthritis", Year: 2020}, domain.SourcePubMed))
	rc.Add(domain.NewRecord(domain.Record{ID: "2", Title: "Exercise therapy for knee osteoarthritis", Year: 2023}, domain.SourceEPMC))

	assert.Len(t, rc.Records(), 2, "same title with different year is a different record")

	counts := rc.Counts()
	assert.Equal(t, 1, counts[domain.SourcePubMed])
	assert.Equal(t, 1, counts[domain.SourceEPMC])
}

// Counts must sum to the merged total, whatever the merge pattern.
func TestReconcilerCountsInvariant(t *testing.T) {
	rc := NewReconciler()
	rc.AddAll([]domain.Record{
		domain.NewRecord(domain.Record{ID: "1", Title: "Dysphagia rehabilitation outcomes", DOI: "10.3/a"}, domain.SourcePubMed),
		domain.NewRecord(domain.Record{ID: "2", Title: "Dysphagia rehabilitation outcomes", DOI: "10.3/a"}, domain.SourceEPMC),
		domain.NewRecord(domain.Record{ID: "3", Title: "Something else entirely here", Year: 2019}, domain.SourceCiNii),
		domain.NewRecord(domain.Record{ID: "4", Title: "短題"}, domain.SourceJStage),
	})

	total := 0
	for _, n := range rc.Counts() {
		total += n
	}
	assert.Equal(t, len(rc.Records()), total)
}
