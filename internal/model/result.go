package model

// ClaimAnalysis is the structured-text analysis of claims extracted from a
// transcript bundle. Content carries the defined category headings (company
// vision, financials, IPO details, forward-looking statements); categories
// with no transcript evidence are marked absent, never guessed.
type ClaimAnalysis struct {
	Content string `json:"content"`
}

// VerificationReport is the structured-text cross-check of a ClaimAnalysis
// against the knowledge store: one entry per claim with claim text, reference
// location, status, details and discrepancy analysis.
type VerificationReport struct {
	Content string `json:"content"`
	Queries int    `json:"queries,omitempty"` // Knowledge store lookups performed
}

// VerificationStatus is the fixed per-claim status enumeration
type VerificationStatus string

const (
	StatusConfirmed         VerificationStatus = "Confirmed"
	StatusPartiallyVerified VerificationStatus = "PartiallyVerified"
	StatusContradicted      VerificationStatus = "Contradicted"
	StatusNotFound          VerificationStatus = "NotFound"
)

// QualityAssessment is the quality gate's verdict on an (analysis, report)
// pair. Score drives a single binary decision at a fixed threshold.
type QualityAssessment struct {
	Score  int    `json:"quality_score"` // 0-100
	Issues string `json:"issues"`        // Problems found, free text
}

// PipelineResult is the final artifact of a verification run.
// Immutable once produced.
type PipelineResult struct {
	Analysis ClaimAnalysis      `json:"transcript_analysis"`
	Report   VerificationReport `json:"verification_report"`
	Quality  QualityAssessment  `json:"quality"`
	Cycles   int                `json:"cycles"` // Extract+verify+score cycles run (1 or 2)
}
