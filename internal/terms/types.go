package terms

import "time"

// CorrectionType tags what kind of vocabulary a correction targets
type CorrectionType string

const (
	TypeTerm    CorrectionType = "term"
	TypePerson  CorrectionType = "person"
	TypeAcronym CorrectionType = "acronym"
)

// Correction sources
const (
	SourceLLM    = "llm_identified"
	SourceManual = "manual"
)

// Correction is a persisted incorrect -> correct mapping with metadata.
// IncorrectTerm is unique across the store; re-upserting the same key
// overwrites the rest of the record.
type Correction struct {
	IncorrectTerm string         `json:"incorrect_term"`
	CorrectTerm   string         `json:"correct_term"`
	Confidence    float64        `json:"confidence"`
	Reasoning     string         `json:"reasoning,omitempty"`
	Type          CorrectionType `json:"correction_type"`
	Source        string         `json:"source"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Rule is the minimal incorrect -> correct projection applied to text
type Rule struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
}

// Finding is a correction candidate returned by the analyzer for a single
// run. It is persisted before any threshold decision is made.
type Finding struct {
	Term       string         `json:"term"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning,omitempty"`
	Type       CorrectionType `json:"correction_type"`
}
