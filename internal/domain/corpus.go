package domain

// Guideline is one entry of the bundled national-guideline registry.
type Guideline struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	TitleEn  string   `json:"titleEn,omitempty"`
	Org      string   `json:"org"`
	URL      string   `json:"url,omitempty"`
	Cat      string   `json:"category"`
	Country  string   `json:"country"`
	Year     int      `json:"year"`
	Diseases []string `json:"diseases"`
}

// ClinicalQuestion is one bundled clinical question tied to a guideline.
// Ev names the strongest evidence level backing the recommendation.
type ClinicalQuestion struct {
	GID  string   `json:"guidelineId"`
	CQ   string   `json:"cq"`
	Q    string   `json:"question"`
	Type string   `json:"type"`
	Rec  string   `json:"recommendation,omitempty"`
	Ev   string   `json:"evidenceLevel,omitempty"`
	Page int      `json:"page,omitempty"`
	KW   []string `json:"keywords"`
}

// GuidelineMatch is a scored guideline hit for a query.
type GuidelineMatch struct {
	Guideline
	Score int `json:"score"`
}

// CQMatch is a scored clinical-question hit, carrying enough of the parent
// guideline for display without a second lookup.
type CQMatch struct {
	ClinicalQuestion
	Score          int    `json:"score"`
	GuidelineTitle string `json:"guidelineTitle"`
	GuidelineOrg   string `json:"guidelineOrg"`
	GuidelineURL   string `json:"guidelineUrl,omitempty"`
}
