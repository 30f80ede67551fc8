package domain

// EvidenceLevel is the evidence-hierarchy tier a record belongs to.
type EvidenceLevel string

const (
	LevelGuideline     EvidenceLevel = "guideline"
	LevelSRMA          EvidenceLevel = "sr_ma"
	LevelRCT           EvidenceLevel = "rct"
	LevelClinicalTrial EvidenceLevel = "clinical_trial"
	LevelObservational EvidenceLevel = "observational"
	LevelCaseReport    EvidenceLevel = "case_report"
	LevelReview        EvidenceLevel = "review"
	LevelOther         EvidenceLevel = "other"
)

// EvidenceOrder is the display order, strongest evidence first.
var EvidenceOrder = []EvidenceLevel{
	LevelGuideline,
	LevelSRMA,
	LevelRCT,
	LevelClinicalTrial,
	LevelObservational,
	LevelCaseReport,
	LevelReview,
	LevelOther,
}

var evidenceRank = map[EvidenceLevel]int{
	LevelGuideline:     0,
	LevelSRMA:          1,
	LevelRCT:           2,
	LevelClinicalTrial: 3,
	LevelObservational: 4,
	LevelCaseReport:    5,
	LevelReview:        6,
	LevelOther:         7,
}

// Rank returns the level's position in the hierarchy; unknown levels rank
// last.
func (l EvidenceLevel) Rank() int {
	if r, ok := evidenceRank[l]; ok {
		return r
	}
	return evidenceRank[LevelOther]
}

// Better reports whether l is stronger evidence than other.
func (l EvidenceLevel) Better(other EvidenceLevel) bool {
	return l.Rank() < other.Rank()
}

// SourceName identifies one of the bibliographic sources.
type SourceName string

const (
	SourcePubMed   SourceName = "pubmed"
	SourceJStage   SourceName = "jstage"
	SourceS2       SourceName = "s2"
	SourceOpenAlex SourceName = "openalex"
	SourceCiNii    SourceName = "cinii"
	SourceEPMC     SourceName = "epmc"
)

// Record is one bibliographic result, normalized across sources.
// Year zero and Language "" mean the source did not report the field;
// Citations is nil when uncounted (zero citations is a real count).
type Record struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Authors        []string      `json:"authors"`
	Journal        string        `json:"journal,omitempty"`
	Year           int           `json:"year,omitempty"`
	PubTypes       []string      `json:"pubTypes,omitempty"`
	EvidenceLevel  EvidenceLevel `json:"evidenceLevel"`
	DOI            string        `json:"doi,omitempty"`
	URL            string        `json:"url,omitempty"`
	Source         SourceName    `json:"source"`
	FoundIn        []SourceName  `json:"foundIn"`
	Citations      *int          `json:"citations,omitempty"`
	Language       string        `json:"language,omitempty"`
	IsPatientVoice bool          `json:"isPatientVoice,omitempty"`
}

// NewRecord stamps the originating source and seeds FoundIn with it.
func NewRecord(r Record, source SourceName) Record {
	r.Source = source
	r.FoundIn = []SourceName{source}
	return r
}
